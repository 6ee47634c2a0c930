package models

import "time"

// Day truncates t to its calendar day as midnight UTC, the form dates are stored in.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayIn returns the calendar day of t as seen in loc, stored as midnight UTC.
func DayIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return Day(t)
	}
	return Day(t.In(loc))
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}
