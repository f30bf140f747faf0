package domain

import (
	"fmt"
	"strings"
)

// Weekdays in the order the default-hours text must list them.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ValidateWeeklyHours checks the default-hours format:
//
//	* Monday: 4:00 AM - 7PM
//	* Tuesday: 4:00 AM - 7PM
//	...
//
// Exactly 7 lines, Monday through Sunday, each "* <Day>: <hours>".
func ValidateWeeklyHours(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("default_hours_of_operation cannot be empty")
	}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 7 {
		return fmt.Errorf("must have exactly 7 lines (one for each day of the week)")
	}

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "* ") {
			return fmt.Errorf("line %d must start with '* '", i+1)
		}
		day, hours, ok := strings.Cut(line[2:], ":")
		if !ok {
			return fmt.Errorf("line %d must have format '* Day: hours'", i+1)
		}
		if strings.TrimSpace(day) != Weekdays[i] {
			return fmt.Errorf("line %d must be for %s, got %s", i+1, Weekdays[i], strings.TrimSpace(day))
		}
		if strings.TrimSpace(hours) == "" {
			return fmt.Errorf("line %d must have hours after the colon", i+1)
		}
	}
	return nil
}

// HoursForWeekday scans the weekly default-hours text for the line beginning
// "* <weekday>: " and returns the hours substring after the first colon.
// Returns false when no line matches or the text is empty.
func HoursForWeekday(text, weekday string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "* "+weekday+":") {
			_, hours, _ := strings.Cut(line, ":")
			return strings.TrimSpace(hours), true
		}
	}
	return "", false
}

// ValidateBulletList checks that every non-blank line of a markdown bullet
// list starts with "* " or "- " and at least one bullet exists. Empty input
// is allowed; callers store it as NULL.
func ValidateBulletList(field, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	hasBullet := false
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if !strings.HasPrefix(stripped, "* ") && !strings.HasPrefix(stripped, "- ") {
			return fmt.Errorf("%s must be a markdown-style bullet point list: each non-empty line must start with '* ' or '- '", field)
		}
		hasBullet = true
	}
	if !hasBullet {
		return fmt.Errorf("%s must contain at least one bullet point starting with '* ' or '- '", field)
	}
	return nil
}
