package util

import (
	"testing"
	"time"
)

func TestFormats(t *testing.T) {
	ts := time.Date(2024, 1, 20, 8, 5, 59, 0, time.UTC)

	if got := FormatDate(ts); got != "2024-01-20" {
		t.Errorf("FormatDate() = %s", got)
	}
	if got := FormatClock(ts); got != "08:05" {
		t.Errorf("FormatClock() = %s", got)
	}
	if got := FormatStamp(ts); got != "2024-01-20 08:05" {
		t.Errorf("FormatStamp() = %s", got)
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2024, 1, 20, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		days int
		want string
	}{
		{0, "2024-01-20"},
		{1, "2024-01-19"},
		{7, "2024-01-13"},
		{30, "2023-12-21"},
	}

	for _, tt := range tests {
		if got := WindowStart(now, tt.days); got != tt.want {
			t.Errorf("WindowStart(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestDaysSince(t *testing.T) {
	from := time.Date(2024, 1, 15, 22, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 20, 1, 0, 0, 0, time.UTC)

	if got := DaysSince(from, to); got != 5 {
		t.Errorf("DaysSince() = %d, want 5", got)
	}
}

func TestParseStamp(t *testing.T) {
	got, err := ParseStamp("2024-01-20 08:30", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 8 || got.Minute() != 30 {
		t.Errorf("unexpected parse result %v", got)
	}

	if _, err := ParseStamp("20/01/2024", nil); err == nil {
		t.Error("expected error for wrong layout")
	}
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)
	clock := NewFixedClock(start)

	clock.Advance(90 * time.Minute)
	if got := clock.Now(); !got.Equal(start.Add(90 * time.Minute)) {
		t.Errorf("Advance() -> %v", got)
	}

	clock.Set(start)
	if !clock.Now().Equal(start) {
		t.Error("Set() did not move the clock")
	}
}

func TestRelativeDays(t *testing.T) {
	tests := map[int]string{0: "today", 1: "yesterday", 4: "4 days ago", -1: "tomorrow", -3: "in 3 days"}
	for days, want := range tests {
		if got := RelativeDays(days); got != want {
			t.Errorf("RelativeDays(%d) = %s, want %s", days, got, want)
		}
	}
}
