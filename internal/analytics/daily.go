package analytics

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/nordgrid/sweload/internal/timeseries"
)

// DailyAverage is the mean load over one calendar day in the display zone.
type DailyAverage struct {
	Day time.Time
	MW  float64
}

// DailyAverages aggregates hourly display rows into per-day means, ascending
// by day. Days around a DST transition simply average their 23 or 25 local
// hours.
func DailyAverages(rows []timeseries.DisplayRow) []DailyAverage {
	if len(rows) == 0 {
		return nil
	}

	byDay := lo.GroupBy(rows, func(row timeseries.DisplayRow) time.Time {
		t := row.Time
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	})

	out := make([]DailyAverage, 0, len(byDay))
	for day, group := range byDay {
		sum := 0.0
		for _, row := range group {
			sum += row.MW
		}
		out = append(out, DailyAverage{Day: day, MW: sum / float64(len(group))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}
