package timeseries

import (
	"sort"
	"time"
)

// Record is one storage-schema observation: a UTC instant, a zone label and
// the mean load over the hour starting at Time.
type Record struct {
	Time time.Time
	Zone Zone
	MW   float64
}

// DisplayRow is the display-schema counterpart: the timestamp carries the
// configured display time zone.
type DisplayRow struct {
	Time time.Time
	Zone Zone
	MW   float64
}

// ToDisplay converts storage rows to the display schema in loc. Multi-zone
// input is sorted by (zone, time) using the canonical zone order; a
// single-zone input comes back sorted by time alone.
func ToDisplay(records []Record, loc *time.Location) []DisplayRow {
	if len(records) == 0 {
		return nil
	}
	rows := make([]DisplayRow, len(records))
	single := true
	for i, rec := range records {
		rows[i] = DisplayRow{Time: rec.Time.In(loc), Zone: rec.Zone, MW: rec.MW}
		if rec.Zone != records[0].Zone {
			single = false
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !single && rows[i].Zone != rows[j].Zone {
			return rows[i].Zone.rank() < rows[j].Zone.rank()
		}
		return rows[i].Time.Before(rows[j].Time)
	})
	return rows
}

// ToStorage converts display rows back to the storage schema, rewriting the
// timestamps to UTC and attaching zone.
func ToStorage(rows []DisplayRow, zone Zone) []Record {
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record{Time: row.Time.UTC(), Zone: zone, MW: row.MW}
	}
	return records
}

// WindowDisplay restricts display rows to the trailing days-long window
// ending at the latest timestamp present. days <= 0 keeps everything.
func WindowDisplay(rows []DisplayRow, days int) []DisplayRow {
	if days <= 0 || len(rows) == 0 {
		return rows
	}
	var latest time.Time
	for _, row := range rows {
		if row.Time.After(latest) {
			latest = row.Time
		}
	}
	cut := latest.Add(-time.Duration(days) * 24 * time.Hour)
	out := make([]DisplayRow, 0, len(rows))
	for _, row := range rows {
		if !row.Time.Before(cut) {
			out = append(out, row)
		}
	}
	return out
}
