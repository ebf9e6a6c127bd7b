package timeseries

import "time"

// Column is one value column of a raw upstream frame. Numeric columns carry
// parsed floats (nil entry = missing or unparseable); textual columns keep
// the raw strings and are coerced lazily during normalization.
type Column struct {
	Name    string
	Numeric bool
	Floats  []*float64
	Raw     []string
}

// Frame is a raw time-indexed observation set as returned by an upstream
// fetch, before normalization. The index may be timezone-naive (Naive set),
// in which case it is treated as UTC.
type Frame struct {
	IndexName string
	Index     []time.Time
	Naive     bool
	Columns   []Column
}

// Len returns the number of index entries.
func (f Frame) Len() int { return len(f.Index) }

// Sample is one normalized observation: a UTC instant and a numeric value.
type Sample struct {
	Time  time.Time
	Value float64
}

// Series is the normalizer output: samples sorted ascending by time,
// timestamps in UTC. Duplicate timestamps are allowed here; deduplication
// happens during history reconciliation.
type Series []Sample

// Records attaches a zone label to every sample, producing storage rows.
func (s Series) Records(zone Zone) []Record {
	records := make([]Record, len(s))
	for i, sample := range s {
		records[i] = Record{Time: sample.Time.UTC(), Zone: zone, MW: sample.Value}
	}
	return records
}
