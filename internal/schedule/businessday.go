package schedule

import "time"

// Releases published after the daily cutoff belong to the next business day.
const (
	cutoffHour   = 16
	cutoffMinute = 30
)

// NextReleaseDate computes the next applicable release date: current time in
// loc, rolled to the next day when at or past the 16:30 cutoff, then rolled
// past Saturday and Sunday. The result is midnight in loc; the time of day
// is deliberately unknown.
func NextReleaseDate(now time.Time, loc *time.Location) time.Time {
	t := now.In(loc)

	pastCutoff := t.Hour() > cutoffHour ||
		(t.Hour() == cutoffHour && t.Minute() >= cutoffMinute)
	if pastCutoff {
		t = t.AddDate(0, 0, 1)
	}

	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
