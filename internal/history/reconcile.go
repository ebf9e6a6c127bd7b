// Package history owns the persisted load record: merging freshly fetched
// observations into the stored table and reading/writing the table itself.
package history

import (
	"sort"

	"github.com/nordgrid/sweload/internal/timeseries"
)

type key struct {
	unixMilli int64
	zone      timeseries.Zone
}

// Reconcile merges incoming observations into the existing table. Rows with
// a zero timestamp or empty zone are dropped, and duplicates on
// (zone, timestamp) are resolved by keeping the last occurrence: because
// incoming is applied after existing, a republished value for an
// already-stored hour overwrites the stored one. That last-wins rule is how
// upstream data revisions are absorbed. The result is sorted by
// (zone, timestamp) ascending, and the operation is idempotent.
//
// Timestamps are keyed at millisecond precision, matching the stored column.
func Reconcile(existing, incoming []timeseries.Record) []timeseries.Record {
	byKey := make(map[key]timeseries.Record, len(existing)+len(incoming))
	for _, batch := range [][]timeseries.Record{existing, incoming} {
		for _, rec := range batch {
			if rec.Time.IsZero() || rec.Zone == "" {
				continue
			}
			rec.Time = rec.Time.UTC().Truncate(0)
			byKey[key{rec.Time.UnixMilli(), rec.Zone}] = rec
		}
	}

	merged := make([]timeseries.Record, 0, len(byKey))
	for _, rec := range byKey {
		merged = append(merged, rec)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Zone != merged[j].Zone {
			return merged[i].Zone < merged[j].Zone
		}
		return merged[i].Time.Before(merged[j].Time)
	})
	return merged
}
