package util

import (
	"time"
)

// DayFormat is the canonical wire format for consumption dates.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD date. Returns (t, true) on success.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WindowStart returns the first day of a trailing window of `days` days
// ending at `end` inclusive. A 30-day window ending today starts 29 days ago.
func WindowStart(end time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	return Day(end).AddDate(0, 0, -(days - 1))
}

// DaysBetween returns every day from start to end inclusive.
func DaysBetween(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil
	}
	out := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
