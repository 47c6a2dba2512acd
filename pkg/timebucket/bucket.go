// Package timebucket aligns timestamps to calendar periods. Every boundary is computed in UTC.
package timebucket

import (
	"fmt"
	"strings"
	"time"
)

// Interval is the width of a calendar bucket.
type Interval string

const (
	Day   Interval = "day"
	Week  Interval = "week"
	Month Interval = "month"
	Year  Interval = "year"
)

// FirstWeekday starts every week bucket.
const FirstWeekday = time.Sunday

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	yearLayout  = "2006"
)

// ParseInterval accepts day, week, month or year (case-insensitive).
func ParseInterval(s string) (Interval, error) {
	switch iv := Interval(strings.ToLower(strings.TrimSpace(s))); iv {
	case Day, Week, Month, Year:
		return iv, nil
	}
	return "", fmt.Errorf("invalid interval %q (day|week|month|year)", s)
}

// Valid reports whether iv is one of the known intervals.
func (iv Interval) Valid() bool {
	_, err := ParseInterval(string(iv))
	return err == nil
}

// Start returns the first instant of the bucket containing t.
// Start(Start(t, iv), iv) == Start(t, iv).
func Start(t time.Time, iv Interval) time.Time {
	t = t.UTC()
	switch iv {
	case Week:
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		back := (int(d.Weekday()) - int(FirstWeekday) + 7) % 7
		return d.AddDate(0, 0, -back)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Year:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Advance moves a bucket start forward by n calendar units (negative n moves back).
func Advance(b time.Time, iv Interval, n int) time.Time {
	switch iv {
	case Week:
		return b.AddDate(0, 0, 7*n)
	case Month:
		return b.AddDate(0, n, 0)
	case Year:
		return b.AddDate(n, 0, 0)
	default:
		return b.AddDate(0, 0, n)
	}
}

// Label renders a bucket start for display.
func Label(b time.Time, iv Interval) string {
	b = b.UTC()
	switch iv {
	case Week:
		return b.Format(dayLayout) + " - " + b.AddDate(0, 0, 6).Format(dayLayout)
	case Month:
		return b.Format(monthLayout)
	case Year:
		return b.Format(yearLayout)
	default:
		return b.Format(dayLayout)
	}
}

// Enumerate lists every bucket from Start(start) up to end inclusive, empty ones included.
func Enumerate(start, end time.Time, iv Interval) []time.Time {
	cur := Start(start, iv)
	last := end.UTC()
	var out []time.Time
	for !cur.After(last) {
		out = append(out, cur)
		cur = Advance(cur, iv, 1)
	}
	return out
}

// Offset counts the whole periods between the buckets of from and to.
// Months and years follow the calendar, not a fixed duration.
func Offset(from, to time.Time, iv Interval) int {
	a, b := Start(from, iv), Start(to, iv)
	switch iv {
	case Week:
		return int(b.Sub(a).Hours()/24) / 7
	case Month:
		return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	case Year:
		return b.Year() - a.Year()
	default:
		return int(b.Sub(a).Hours() / 24)
	}
}

// ParseDate reads "YYYY-MM-DD" or RFC 3339 and returns the instant in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC3339 (e.g. 2024-01-31): %q", s)
	}
	return t.UTC(), nil
}

// DaysBetween returns the whole days elapsed from a to b, never negative.
func DaysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d <= 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// ParseDateEnd is ParseDate for the upper bound of an inclusive range: a bare date covers the
// whole day.
func ParseDateEnd(s string) (time.Time, error) {
	t, err := ParseDate(s)
	if err != nil {
		return t, err
	}
	if _, bare := time.Parse(dayLayout, strings.TrimSpace(s)); bare == nil {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
