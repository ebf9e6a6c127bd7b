package timeseries

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNoValueColumn is returned when a frame carries no column that could
// serve as the value column.
var ErrNoValueColumn = errors.New("no value column in frame")

// Normalize converts a raw frame into a canonical series: UTC timestamps and
// one numeric value per row. The value column is resolved in order:
//
//  1. a column literally named valueName
//  2. the single numeric column, renamed
//  3. the row-wise sum of all numeric columns (lossy aggregation)
//  4. the first non-index column, coerced numerically
//
// A naive index is taken to already be UTC; it is never interpreted as local
// time. Rows whose timestamp or value is missing or unparseable are dropped
// and counted in the second return value. The result is sorted ascending by
// timestamp and not deduplicated.
func Normalize(frame Frame, valueName string) (Series, int, error) {
	values, err := resolveValues(frame, valueName)
	if err != nil {
		return nil, 0, err
	}

	series := make(Series, 0, frame.Len())
	dropped := 0
	for i, ts := range frame.Index {
		if ts.IsZero() || i >= len(values) || values[i] == nil {
			dropped++
			continue
		}
		if frame.Naive {
			// Reinterpret the wall clock as UTC; never assume local time.
			ts = time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.UTC)
		}
		series = append(series, Sample{Time: ts.UTC(), Value: *values[i]})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})
	return series, dropped, nil
}

func resolveValues(frame Frame, valueName string) ([]*float64, error) {
	var numeric []Column
	for _, col := range frame.Columns {
		if col.Name == valueName {
			return columnFloats(col, frame.Len()), nil
		}
		if col.Numeric {
			numeric = append(numeric, col)
		}
	}

	switch len(numeric) {
	case 0:
		// fall through to positional pick below
	case 1:
		return columnFloats(numeric[0], frame.Len()), nil
	default:
		return sumColumns(numeric, frame.Len()), nil
	}

	for _, col := range frame.Columns {
		if col.Name == frame.IndexName {
			continue
		}
		return columnFloats(col, frame.Len()), nil
	}
	return nil, ErrNoValueColumn
}

// columnFloats yields the column's values as parsed floats, coercing textual
// columns entry by entry. Entries that fail to parse come back nil.
func columnFloats(col Column, n int) []*float64 {
	if col.Numeric {
		return col.Floats
	}
	floats := make([]*float64, n)
	for i, raw := range col.Raw {
		if i >= n {
			break
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}
		floats[i] = &v
	}
	return floats
}

// sumColumns adds multiple numeric columns row-wise. A row where any column
// is missing yields nil, so partial sums never masquerade as totals.
func sumColumns(cols []Column, n int) []*float64 {
	sums := make([]*float64, n)
	for i := 0; i < n; i++ {
		total := 0.0
		ok := true
		for _, col := range cols {
			if i >= len(col.Floats) || col.Floats[i] == nil {
				ok = false
				break
			}
			total += *col.Floats[i]
		}
		if ok {
			v := total
			sums[i] = &v
		}
	}
	return sums
}
