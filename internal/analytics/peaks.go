// Package analytics derives chart-ready aggregates from display tables.
package analytics

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/nordgrid/sweload/internal/timeseries"
)

// YearlyPeak is the highest observed load within one calendar year, the year
// taken in the rows' display time zone.
type YearlyPeak struct {
	Year int
	Time time.Time
	MW   float64
}

// YearlyPeaks returns one peak per calendar year present in rows, ascending
// by year. Rows are scanned in ascending timestamp order and a candidate is
// replaced only on a strictly greater value, so ties deterministically
// resolve to the earliest occurrence. An empty input yields an empty result.
func YearlyPeaks(rows []timeseries.DisplayRow) []YearlyPeak {
	ordered := make([]timeseries.DisplayRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time.Before(ordered[j].Time)
	})

	peaks := make(map[int]YearlyPeak)
	for _, row := range ordered {
		year := row.Time.Year()
		best, ok := peaks[year]
		if !ok || row.MW > best.MW {
			peaks[year] = YearlyPeak{Year: year, Time: row.Time, MW: row.MW}
		}
	}

	out := lo.Values(peaks)
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
