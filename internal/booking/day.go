package booking

import (
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day in ISO YYYY-MM-DD form, with no time component.
// Days compare correctly as plain strings because the layout is
// lexicographically ordered.
type Day string

// ParseDay validates and normalizes an ISO date string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", ErrInvalidDay
	}
	return Day(t.Format(dayLayout)), nil
}

// DayOf truncates a point in time to its calendar day in t's location.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// Valid reports whether d is a well-formed ISO day.
func (d Day) Valid() bool {
	_, err := time.Parse(dayLayout, string(d))
	return err == nil
}

// Time returns the day as midnight UTC, the representation stored in the
// database date column.
func (d Day) Time() time.Time {
	t, _ := time.Parse(dayLayout, string(d))
	return t
}

func (d Day) Before(other Day) bool { return d < other }

func (d Day) String() string { return string(d) }

// MonthDays lists every calendar day of the given month, handling variable
// month lengths and leap years.
func MonthDays(year int, month time.Month) ([]Day, error) {
	if year < 1 || month < time.January || month > time.December {
		return nil, ErrInvalidDay
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month normalizes to the last day of this one.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	days := make([]Day, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, DayOf(d))
	}
	return days, nil
}
