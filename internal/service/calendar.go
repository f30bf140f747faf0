package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

// DefaultTimeZone is used whenever an org has no timezone configured or the
// configured name does not resolve.
const DefaultTimeZone = "America/Phoenix"

// HoursOutcome tags the lot-hours resolution variants. The webhook boundary
// flattens every variant into a spoken sentence; nothing in this path ever
// escalates to a non-2xx response.
type HoursOutcome int

const (
	// HoursException an exception-date override matched the literal date string.
	HoursException HoursOutcome = iota
	// HoursWeekday the weekly default schedule had a line for the weekday.
	HoursWeekday
	// HoursNothingFound no override and no usable weekday line.
	HoursNothingFound
	// HoursBadDate the date string was not a valid M/D or MM/DD.
	HoursBadDate
	// HoursLookupError the datastore lookup itself failed.
	HoursLookupError
)

// HoursResult lot-hours resolution for one date.
type HoursResult struct {
	Outcome HoursOutcome
	Date    string
	Hours   string
	Err     error
}

// Spoken renders the result as the sentence the voice agent reads out.
func (r HoursResult) Spoken() string {
	switch r.Outcome {
	case HoursException:
		return fmt.Sprintf("On %s, the lot hours are: %s.", r.Date, r.Hours)
	case HoursWeekday:
		return fmt.Sprintf("On %s, the lot is open from %s.", r.Date, r.Hours)
	case HoursBadDate:
		return fmt.Sprintf("Sorry, I couldn't understand the date %s.", r.Date)
	case HoursLookupError:
		return "There was an error checking the lot hours."
	default:
		return fmt.Sprintf("On %s, nothing was found for the lot hours.", r.Date)
	}
}

// CalendarService resolves lot hours for caller-supplied MM/DD dates,
// consulting exception-date overrides before the weekly default schedule.
type CalendarService struct {
	orgs           repository.OrgsRepo
	exceptionDates repository.ExceptionDatesRepo
	logger         *zap.Logger

	// now is swapped out by tests to pin the rollover boundary.
	now func() time.Time
}

func NewCalendarService(orgs repository.OrgsRepo, exceptionDates repository.ExceptionDatesRepo, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		orgs:           orgs,
		exceptionDates: exceptionDates,
		logger:         logger,
		now:            time.Now,
	}
}

// loadLocation resolves a timezone name, silently falling back to the
// default zone for empty or invalid names.
func loadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc, err = time.LoadLocation(DefaultTimeZone)
		if err != nil {
			return time.UTC
		}
	}
	return loc
}

// parseMonthDay splits "M/D" or "MM/DD" into month and day numbers. Calendar
// legality (e.g. "2/30") is checked by nextOccurrenceWeekday.
func parseMonthDay(date string) (int, int, error) {
	parts := strings.Split(date, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("date %q is not in MM/DD format", date)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("date %q has a non-numeric month", date)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("date %q has a non-numeric day", date)
	}
	return month, day, nil
}

// nextOccurrenceWeekday interprets month/day in the current local year of
// loc; if that date already passed, it rolls forward exactly one year, so a
// recurring caller reference like "3/15" always means the next occurrence.
func (s *CalendarService) nextOccurrenceWeekday(month, day int, loc *time.Location) (string, error) {
	now := s.now().In(loc)
	year := now.Year()

	candidate, err := exactDate(year, month, day, loc)
	if err != nil {
		return "", err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(today) {
		// The rolled date needs its own legality check: 2/29 can exist this
		// year but not next.
		candidate, err = exactDate(year+1, month, day, loc)
		if err != nil {
			return "", err
		}
	}
	return candidate.Weekday().String(), nil
}

// exactDate builds the date and rejects anything time.Date had to normalize
// (2/30 -> 3/2), so impossible calendar dates surface as errors.
func exactDate(year, month, day int, loc *time.Location) (time.Time, error) {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if int(d.Month()) != month || d.Day() != day {
		return time.Time{}, fmt.Errorf("date %02d/%02d does not exist", month, day)
	}
	return d, nil
}

// ResolveLotHours answers "what are the lot hours on <date>" for an org.
// Exception-date rows always win over the weekly default schedule for their
// exact date string.
func (s *CalendarService) ResolveLotHours(ctx context.Context, orgID, date, timeZone string) HoursResult {
	ed, err := s.exceptionDates.GetByOrgAndDate(ctx, orgID, date)
	if err == nil {
		return HoursResult{Outcome: HoursException, Date: date, Hours: ed.Hours}
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Exception date lookup failed", zap.String("org_id", orgID), zap.Error(err))
		return HoursResult{Outcome: HoursLookupError, Date: date, Err: err}
	}

	month, day, err := parseMonthDay(date)
	if err != nil {
		return HoursResult{Outcome: HoursBadDate, Date: date, Err: err}
	}

	weekday, err := s.nextOccurrenceWeekday(month, day, loadLocation(timeZone))
	if err != nil {
		return HoursResult{Outcome: HoursBadDate, Date: date, Err: err}
	}

	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return HoursResult{Outcome: HoursNothingFound, Date: date}
		}
		s.logger.Error("Org lookup failed", zap.String("org_id", orgID), zap.Error(err))
		return HoursResult{Outcome: HoursLookupError, Date: date, Err: err}
	}
	if !org.DefaultHoursOfOperation.Valid {
		return HoursResult{Outcome: HoursNothingFound, Date: date}
	}

	hours, ok := domain.HoursForWeekday(org.DefaultHoursOfOperation.String, weekday)
	if !ok {
		return HoursResult{Outcome: HoursNothingFound, Date: date}
	}
	return HoursResult{Outcome: HoursWeekday, Date: date, Hours: hours}
}

// TodaySpoken reports today's date and weekday in the given timezone, e.g.
// "Today's date is 03/15/2025. The day of the week is Saturday."
func (s *CalendarService) TodaySpoken(timeZone string) string {
	now := s.now().In(loadLocation(timeZone))
	return fmt.Sprintf("Today's date is %s. The day of the week is %s.",
		now.Format("01/02/2006"), now.Weekday().String())
}
