package timeseries

import (
	"errors"
	"time"
)

// ErrInvalidWindow is returned for nonsensical fetch-window parameters.
var ErrInvalidWindow = errors.New("invalid fetch window")

// ComputeWindow returns a half-open [start, end) fetch window in loc:
// end is now floored to the start of the current hour, start is end minus
// daysBack fixed 24-hour days. daysBack == 0 yields an empty window
// (start == end) which callers treat as "nothing to fetch"; a negative
// daysBack is an error.
func ComputeWindow(daysBack int, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if daysBack < 0 {
		return time.Time{}, time.Time{}, ErrInvalidWindow
	}
	local := now.In(loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)
	start := end.Add(-time.Duration(daysBack) * 24 * time.Hour)
	return start, end, nil
}

// MonthRange is one [Start, End) calendar-month chunk of a backfill.
type MonthRange struct {
	Start time.Time
	End   time.Time
}

// MonthRanges splits [start, end) into calendar-month windows, the first
// beginning at start and the last capped at end. Used to keep backfill
// requests below upstream response limits.
func MonthRanges(start, end time.Time) []MonthRange {
	var ranges []MonthRange
	a := start
	for a.Before(end) {
		b := time.Date(a.Year(), a.Month(), 1, 0, 0, 0, 0, a.Location()).AddDate(0, 1, 0)
		if b.After(end) {
			b = end
		}
		ranges = append(ranges, MonthRange{Start: a, End: b})
		a = b
	}
	return ranges
}
