package util

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	got, ok := ParseDay("2025-06-15")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Format(DayFormat) != "2025-06-15" {
		t.Fatalf("unexpected day %v", got)
	}
}

func TestParseDayInvalid(t *testing.T) {
	if _, ok := ParseDay(""); ok {
		t.Fatalf("expected not ok for empty")
	}
	if _, ok := ParseDay("15/06/2025"); ok {
		t.Fatalf("expected not ok for wrong layout")
	}
}

func TestWindowStart(t *testing.T) {
	end := time.Date(2025, 6, 30, 14, 3, 0, 0, time.UTC)
	start := WindowStart(end, 30)
	if start.Format(DayFormat) != "2025-06-01" {
		t.Fatalf("unexpected start %v", start)
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	days := DaysBetween(start, end)
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	if days[0].Format(DayFormat) != "2025-06-28" || days[4].Format(DayFormat) != "2025-07-02" {
		t.Fatalf("unexpected bounds %v %v", days[0], days[4])
	}
}

func TestDaysBetweenReversed(t *testing.T) {
	start := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if days := DaysBetween(start, end); days != nil {
		t.Fatalf("expected nil for reversed range, got %v", days)
	}
}

func TestIsWeekend(t *testing.T) {
	sat := time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	if !IsWeekend(sat) {
		t.Fatalf("saturday should be weekend")
	}
	if IsWeekend(mon) {
		t.Fatalf("monday should not be weekend")
	}
}
