package schedule

import (
	"testing"
	"time"
)

func nyc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return loc
}

func TestBeforeCutoffSameDay(t *testing.T) {
	loc := nyc(t)
	// Wednesday 2024-06-12 16:29 ET
	now := time.Date(2024, 6, 12, 16, 29, 0, 0, loc)
	got := NextReleaseDate(now, loc)
	want := time.Date(2024, 6, 12, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAtCutoffAdvances(t *testing.T) {
	loc := nyc(t)
	now := time.Date(2024, 6, 12, 16, 30, 0, 0, loc)
	got := NextReleaseDate(now, loc)
	want := time.Date(2024, 6, 13, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEveningLowMinuteAdvances(t *testing.T) {
	loc := nyc(t)
	// 17:05 is past the cutoff even though the minute is below 30.
	now := time.Date(2024, 6, 12, 17, 5, 0, 0, loc)
	got := NextReleaseDate(now, loc)
	want := time.Date(2024, 6, 13, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSaturdayRollsToMonday(t *testing.T) {
	loc := nyc(t)
	// Saturday 2024-06-15
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, loc)
	got := NextReleaseDate(now, loc)
	want := time.Date(2024, 6, 17, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Weekday() != time.Monday {
		t.Fatalf("got %v (%v), want Monday %v", got, got.Weekday(), want)
	}
}

func TestFridayEveningRollsToMonday(t *testing.T) {
	loc := nyc(t)
	// Friday 2024-06-14 20:00 → cutoff pushes to Saturday → Monday.
	now := time.Date(2024, 6, 14, 20, 0, 0, 0, loc)
	got := NextReleaseDate(now, loc)
	want := time.Date(2024, 6, 17, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResultIsMidnight(t *testing.T) {
	loc := nyc(t)
	got := NextReleaseDate(time.Date(2024, 6, 12, 9, 41, 13, 500, loc), loc)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestConvertsFromOtherZones(t *testing.T) {
	loc := nyc(t)
	// 21:00 UTC on a Wednesday is 17:00 ET: past cutoff.
	now := time.Date(2024, 6, 12, 21, 0, 0, 0, time.UTC)
	got := NextReleaseDate(now, loc)
	want := time.Date(2024, 6, 13, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
