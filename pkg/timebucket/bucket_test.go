package timebucket

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStart(t *testing.T) {
	ts := time.Date(2024, 1, 17, 15, 42, 7, 0, time.UTC) // Wednesday
	cases := []struct {
		iv   Interval
		want time.Time
	}{
		{Day, date(2024, 1, 17)},
		{Week, date(2024, 1, 14)},
		{Month, date(2024, 1, 1)},
		{Year, date(2024, 1, 1)},
	}
	for _, c := range cases {
		got := Start(ts, c.iv)
		if !got.Equal(c.want) {
			t.Fatalf("%s: got %v, want %v", c.iv, got, c.want)
		}
		if again := Start(got, c.iv); !again.Equal(got) {
			t.Fatalf("%s: not idempotent, %v -> %v", c.iv, got, again)
		}
	}
}

func TestStart_WeekCrossesYear(t *testing.T) {
	got := Start(date(2024, 1, 3), Week)
	if want := date(2023, 12, 31); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := Start(date(2024, 1, 7), Week); !got.Equal(date(2024, 1, 7)) {
		t.Fatalf("a Sunday should start its own week, got %v", got)
	}
}

func TestStart_NormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2024, 3, 1, 2, 0, 0, 0, loc) // Feb 29 21:00 UTC
	if got := Start(ts, Month); !got.Equal(date(2024, 2, 1)) {
		t.Fatalf("got %v, want 2024-02-01", got)
	}
}

func TestAdvance(t *testing.T) {
	if got := Advance(date(2024, 1, 1), Month, 1); !got.Equal(date(2024, 2, 1)) {
		t.Fatalf("month: got %v", got)
	}
	if got := Advance(date(2024, 11, 1), Month, 3); !got.Equal(date(2025, 2, 1)) {
		t.Fatalf("month x3: got %v", got)
	}
	if got := Advance(date(2023, 12, 31), Week, 2); !got.Equal(date(2024, 1, 14)) {
		t.Fatalf("week: got %v", got)
	}
	if got := Advance(date(2024, 1, 1), Year, 1); !got.Equal(date(2025, 1, 1)) {
		t.Fatalf("year: got %v", got)
	}
	if got := Advance(date(2024, 2, 28), Day, 2); !got.Equal(date(2024, 3, 1)) {
		t.Fatalf("day (leap year): got %v", got)
	}
}

func TestLabel(t *testing.T) {
	cases := map[Interval]string{
		Day:   "2024-01-14",
		Week:  "2024-01-14 - 2024-01-20",
		Month: "2024-01",
		Year:  "2024",
	}
	for iv, want := range cases {
		if got := Label(Start(date(2024, 1, 14), iv), iv); got != want {
			t.Fatalf("%s: got %q, want %q", iv, got, want)
		}
	}
}

func TestEnumerate_DaysIncludeEmptyBuckets(t *testing.T) {
	got := Enumerate(date(2024, 1, 1), date(2024, 1, 3), Day)
	if len(got) != 3 {
		t.Fatalf("got %d buckets, want 3", len(got))
	}
	if Label(got[2], Day) != "2024-01-03" {
		t.Fatalf("unexpected last bucket: %v", got[2])
	}
}

func TestEnumerate_MonthsInclusive(t *testing.T) {
	got := Enumerate(date(2025, 3, 15), date(2025, 6, 1), Month)
	if len(got) != 4 {
		t.Fatalf("got %d months, want 4", len(got))
	}
	if got[0].Month() != time.March || got[3].Month() != time.June {
		t.Fatalf("unexpected months: %v", got)
	}
}

func TestEnumerate_NoGapsNoDuplicates(t *testing.T) {
	start := time.Date(2023, 11, 29, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 3, 23, 0, 0, 0, time.UTC)
	for _, iv := range []Interval{Day, Week, Month, Year} {
		buckets := Enumerate(start, end, iv)
		if len(buckets) == 0 {
			t.Fatalf("%s: no buckets", iv)
		}
		if !buckets[0].Equal(Start(start, iv)) || !buckets[len(buckets)-1].Equal(Start(end, iv)) {
			t.Fatalf("%s: range not covered: first=%v last=%v", iv, buckets[0], buckets[len(buckets)-1])
		}
		seen := map[string]bool{}
		for i, b := range buckets {
			l := Label(b, iv)
			if seen[l] {
				t.Fatalf("%s: duplicate label %q", iv, l)
			}
			seen[l] = true
			if i > 0 && !Advance(buckets[i-1], iv, 1).Equal(b) {
				t.Fatalf("%s: gap between %v and %v", iv, buckets[i-1], b)
			}
		}
	}
}

func TestEnumerate_EndBeforeStart(t *testing.T) {
	if got := Enumerate(date(2024, 2, 1), date(2024, 1, 1), Day); len(got) != 0 {
		t.Fatalf("got %d buckets, want 0", len(got))
	}
}

func TestOffset(t *testing.T) {
	cases := []struct {
		from, to time.Time
		iv       Interval
		want     int
	}{
		{date(2024, 1, 1), date(2024, 2, 1), Month, 1},
		{date(2024, 2, 1), date(2024, 3, 31), Month, 1},
		{date(2024, 1, 31), date(2024, 2, 1), Month, 1},
		{date(2024, 11, 5), date(2025, 2, 1), Month, 3},
		{date(2024, 1, 1), date(2024, 1, 31), Month, 0},
		{date(2024, 1, 3), date(2024, 1, 14), Week, 2},
		{date(2024, 1, 1), date(2024, 1, 4), Day, 3},
		{date(2023, 6, 1), date(2025, 1, 1), Year, 2},
	}
	for _, c := range cases {
		if got := Offset(c.from, c.to, c.iv); got != c.want {
			t.Fatalf("Offset(%v, %v, %s) = %d, want %d", c.from, c.to, c.iv, got, c.want)
		}
	}
}

func TestParseInterval(t *testing.T) {
	if iv, err := ParseInterval(" Month "); err != nil || iv != Month {
		t.Fatalf("got %q, %v", iv, err)
	}
	if _, err := ParseInterval("quarter"); err == nil {
		t.Fatal("expected error for unknown interval, got nil")
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(date(2024, 3, 5)) {
		t.Fatalf("got %v", got)
	}
	got, err = ParseDate("2024-03-05T10:00:00+02:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 8 || got.Location() != time.UTC {
		t.Fatalf("expected 08:00 UTC, got %v", got)
	}
	if _, err := ParseDate("05/03/2024"); err == nil {
		t.Fatal("expected error for invalid format, got nil")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatal("expected error for empty date, got nil")
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, a.Add(47*time.Hour)); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := DaysBetween(a, a.Add(-time.Hour)); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestParseDateEnd(t *testing.T) {
	got, err := ParseDateEnd("2024-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(date(2024, 3, 6).Add(-time.Nanosecond)) {
		t.Fatalf("bare date should cover the whole day, got %v", got)
	}
	got, err = ParseDateEnd("2024-03-05T10:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 10 {
		t.Fatalf("timestamps are kept as is, got %v", got)
	}
	if _, err := ParseDateEnd("tomorrow"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
