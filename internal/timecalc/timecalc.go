// Package timecalc holds the pure time arithmetic behind task hour
// accounting and summary windows. Everything here is side-effect free
// and works in UTC.
package timecalc

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Accepted timestamp layouts, tried in order. The last one matches the
// value of an HTML datetime-local input.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ElapsedHours returns the interval between start and end in fractional
// hours, rounded to 2 decimal places. If either endpoint is missing the
// result is 0. A negative interval passes through unvalidated.
func ElapsedHours(start, end *time.Time) float64 {
	if start == nil || end == nil {
		return 0
	}
	hours := end.Sub(*start).Hours()
	return math.Round(hours*100) / 100
}

// DayStart returns midnight UTC of t's calendar date.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the most recent Monday 00:00 UTC on or before t.
func WeekStart(t time.Time) time.Time {
	day := DayStart(t)
	// time.Weekday counts Sunday as 0; shift so Monday is 0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// RollingWeekAgo returns the instant 7*24h before t. This is the rolling
// report window, deliberately distinct from the calendar WeekStart.
func RollingWeekAgo(t time.Time) time.Time {
	return t.UTC().Add(-7 * 24 * time.Hour)
}

// ParseTimestamp parses s against the accepted layouts and returns the
// moment in UTC, or ErrInvalidTimestamp if none match.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}
