package marketcap

import (
	"time"

	"github.com/etnz/marketcap/date"
	"github.com/scmhub/calendar"
)

// nyse is the calendar of the New York Stock Exchange, nil if unavailable.
var nyse = calendar.GetCalendar("xnys")

// IsSession reports whether US markets trade on day.
func IsSession(day date.Date) bool {
	t := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
	if nyse == nil {
		return t.Weekday() != time.Saturday && t.Weekday() != time.Sunday
	}
	if nyse.Loc != nil {
		t = time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, nyse.Loc)
	}
	return nyse.IsBusinessDay(t)
}

// LastSession returns the last US trading day on or before day.
func LastSession(day date.Date) date.Date {
	// there is never more than a week without session
	for i := 0; i < 10; i++ {
		if IsSession(day) {
			return day
		}
		day = day.Add(-1)
	}
	return day
}

// IsPartialMonth reports whether the month of day still has sessions to come
// after today, its month-end value is not final yet.
func IsPartialMonth(day, today date.Date) bool {
	return today.Before(LastSession(day.EndOf(date.Monthly)))
}
