package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

const testWeeklyHours = `* Monday: 4:00 AM - 7PM
* Tuesday: 4:00 AM - 7PM
* Wednesday: 4:00 AM - 1:00 PM, 5:00 PM - 8:00 PM
* Thursday: 4:00 AM - 7PM
* Friday: 4:00 AM - 7PM
* Saturday: 4:00 AM - 7PM
* Sunday: 4:00 AM - 7PM`

// newCalendarFixture seeds one org with the weekly schedule and pins "now"
// to Monday 2023-03-13 in Phoenix. 3/15 that week is a Wednesday.
func newCalendarFixture(t *testing.T) (*CalendarService, *repository.MemoryOrgsRepo, *repository.MemoryExceptionDatesRepo, string) {
	t.Helper()

	orgs := repository.NewMemoryOrgsRepo()
	org := &domain.Org{
		DefaultHoursOfOperation: sql.NullString{String: testWeeklyHours, Valid: true},
		TimeZone:                sql.NullString{String: "America/Phoenix", Valid: true},
	}
	orgs.PutOrg(org)

	exceptionDates := repository.NewMemoryExceptionDatesRepo(orgs)

	svc := NewCalendarService(orgs, exceptionDates, zap.NewNop())
	loc, err := time.LoadLocation("America/Phoenix")
	require.NoError(t, err)
	svc.now = func() time.Time {
		return time.Date(2023, time.March, 13, 10, 0, 0, 0, loc)
	}
	return svc, orgs, exceptionDates, org.ID
}

func TestResolveLotHours_WeekdayLine(t *testing.T) {
	svc, _, _, orgID := newCalendarFixture(t)

	result := svc.ResolveLotHours(context.Background(), orgID, "3/15", "America/Phoenix")
	require.Equal(t, HoursWeekday, result.Outcome)
	require.Equal(t, "On 3/15, the lot is open from 4:00 AM - 1:00 PM, 5:00 PM - 8:00 PM.", result.Spoken())
}

func TestResolveLotHours_ExceptionWins(t *testing.T) {
	svc, _, exceptionDates, orgID := newCalendarFixture(t)
	exceptionDates.PutExceptionDate(orgID, "3/15", "Closed for auction")

	result := svc.ResolveLotHours(context.Background(), orgID, "3/15", "America/Phoenix")
	require.Equal(t, HoursException, result.Outcome)
	require.Equal(t, "On 3/15, the lot hours are: Closed for auction.", result.Spoken())
}

func TestResolveLotHours_RollsToNextYear(t *testing.T) {
	svc, _, _, orgID := newCalendarFixture(t)

	// 1/2 already passed on 2023-03-13, so it resolves in 2024:
	// 2024-01-02 is a Tuesday (2023-01-02 was a Monday).
	result := svc.ResolveLotHours(context.Background(), orgID, "1/2", "America/Phoenix")
	require.Equal(t, HoursWeekday, result.Outcome)
	require.Equal(t, "4:00 AM - 7PM", result.Hours)
}

func TestResolveLotHours_TodayDoesNotRoll(t *testing.T) {
	svc, _, _, orgID := newCalendarFixture(t)

	// Pinned "now" is Monday 3/13; today's date stays in the current year.
	result := svc.ResolveLotHours(context.Background(), orgID, "3/13", "America/Phoenix")
	require.Equal(t, HoursWeekday, result.Outcome)
	require.Equal(t, "4:00 AM - 7PM", result.Hours)
}

func TestResolveLotHours_BadDates(t *testing.T) {
	svc, _, _, orgID := newCalendarFixture(t)

	for _, date := range []string{"not-a-date", "3-15", "13/1/2", "x/5", "5/y", "2/30"} {
		result := svc.ResolveLotHours(context.Background(), orgID, date, "America/Phoenix")
		require.Equal(t, HoursBadDate, result.Outcome, "date %q", date)
		require.Equal(t, "Sorry, I couldn't understand the date "+date+".", result.Spoken())
	}
}

func TestResolveLotHours_LeapDayAfterItPassed(t *testing.T) {
	svc, _, _, orgID := newCalendarFixture(t)

	loc, err := time.LoadLocation("America/Phoenix")
	require.NoError(t, err)
	// 2024-03-13 is after the leap day; 2/29 rolls to 2025, which has no
	// 2/29, so the rolled date is just as invalid.
	svc.now = func() time.Time {
		return time.Date(2024, time.March, 13, 10, 0, 0, 0, loc)
	}

	result := svc.ResolveLotHours(context.Background(), orgID, "2/29", "America/Phoenix")
	require.Equal(t, HoursBadDate, result.Outcome)
	require.Equal(t, "Sorry, I couldn't understand the date 2/29.", result.Spoken())
}

func TestResolveLotHours_LeapDayBeforeItPassed(t *testing.T) {
	svc, _, _, orgID := newCalendarFixture(t)

	loc, err := time.LoadLocation("America/Phoenix")
	require.NoError(t, err)
	// Pinned before the leap day of 2024: 2024-02-29 is a Thursday.
	svc.now = func() time.Time {
		return time.Date(2024, time.January, 10, 10, 0, 0, 0, loc)
	}

	result := svc.ResolveLotHours(context.Background(), orgID, "2/29", "America/Phoenix")
	require.Equal(t, HoursWeekday, result.Outcome)
	require.Equal(t, "4:00 AM - 7PM", result.Hours)
}

func TestResolveLotHours_InvalidTimeZoneFallsBack(t *testing.T) {
	svc, _, _, orgID := newCalendarFixture(t)

	result := svc.ResolveLotHours(context.Background(), orgID, "3/15", "Not/AZone")
	require.Equal(t, HoursWeekday, result.Outcome)
}

func TestResolveLotHours_NothingFound(t *testing.T) {
	svc, orgs, _, _ := newCalendarFixture(t)

	bare := &domain.Org{}
	orgs.PutOrg(bare)

	result := svc.ResolveLotHours(context.Background(), bare.ID, "3/15", "America/Phoenix")
	require.Equal(t, HoursNothingFound, result.Outcome)
	require.Equal(t, "On 3/15, nothing was found for the lot hours.", result.Spoken())
}

func TestResolveLotHours_UnknownOrg(t *testing.T) {
	svc, _, _, _ := newCalendarFixture(t)

	result := svc.ResolveLotHours(context.Background(), "no-such-org", "3/15", "America/Phoenix")
	require.Equal(t, HoursNothingFound, result.Outcome)
}

func TestTodaySpoken(t *testing.T) {
	svc, _, _, _ := newCalendarFixture(t)

	spoken := svc.TodaySpoken("America/Phoenix")
	require.Equal(t, "Today's date is 03/13/2023. The day of the week is Monday.", spoken)
}

func TestTodaySpoken_InvalidZoneFallsBack(t *testing.T) {
	svc, _, _, _ := newCalendarFixture(t)

	require.Equal(t, svc.TodaySpoken("America/Phoenix"), svc.TodaySpoken("Bogus/Zone"))
}
