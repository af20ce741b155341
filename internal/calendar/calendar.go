// Package calendar derives civil dates in the platform's single
// reference timezone. Every streak and aggregate computation keys off
// these dates, never off the client's local clock.
package calendar

import (
	"time"
	// Embed the tz database so date math works in scratch containers.
	_ "time/tzdata"
)

const DateLayout = "2006-01-02"

type Calendar struct {
	loc *time.Location
}

func New(timezone string) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Calendar{loc: loc}, nil
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Today formats now as a calendar date in the reference timezone.
func (c *Calendar) Today(now time.Time) string {
	return now.In(c.loc).Format(DateLayout)
}

// SecondsUntilMidnight returns whole seconds until the next 00:00:00
// boundary in the reference timezone. time.Date normalizes day+1
// across month ends and DST transitions.
func (c *Calendar) SecondsUntilMidnight(now time.Time) int {
	local := now.In(c.loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, c.loc)
	secs := int(next.Sub(now).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// DayStart returns the instant at which civil date d begins in the
// reference timezone.
func (c *Calendar) DayStart(d string) time.Time {
	t, err := time.ParseInLocation(DateLayout, d, c.loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PreviousDay returns the calendar day immediately before d. Dates are
// pure civil values here, so the arithmetic is timezone-independent.
func PreviousDay(d string) string {
	t, err := time.Parse(DateLayout, d)
	if err != nil {
		return d
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// AddDays returns d shifted by n calendar days (n may be negative).
func AddDays(d string, n int) string {
	t, err := time.Parse(DateLayout, d)
	if err != nil {
		return d
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}
