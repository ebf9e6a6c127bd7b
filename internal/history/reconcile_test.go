package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordgrid/sweload/internal/timeseries"
)

func rec(h int, zone timeseries.Zone, mw float64) timeseries.Record {
	return timeseries.Record{
		Time: time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC),
		Zone: zone,
		MW:   mw,
	}
}

func TestReconcile(t *testing.T) {
	existing := []timeseries.Record{
		rec(0, timeseries.ZoneSE1, 100),
		rec(1, timeseries.ZoneSE1, 110),
		rec(0, timeseries.ZoneSE2, 200),
	}

	t.Run("absent existing yields deduped incoming", func(t *testing.T) {
		out := Reconcile(nil, []timeseries.Record{
			rec(0, timeseries.ZoneSE1, 1),
			rec(0, timeseries.ZoneSE1, 2),
		})
		require.Len(t, out, 1)
		assert.Equal(t, 2.0, out[0].MW)
	})

	t.Run("empty incoming is the identity", func(t *testing.T) {
		out := Reconcile(existing, nil)
		assert.ElementsMatch(t, existing, out)
	})

	t.Run("re-feeding identical data changes nothing", func(t *testing.T) {
		once := Reconcile(existing, existing)
		twice := Reconcile(once, existing[:1])
		assert.Equal(t, once, twice)
	})

	t.Run("revision overwrites the stored value, rest untouched", func(t *testing.T) {
		out := Reconcile(existing, []timeseries.Record{rec(1, timeseries.ZoneSE1, 115)})
		require.Len(t, out, 3)
		for _, r := range out {
			switch {
			case r.Zone == timeseries.ZoneSE1 && r.Time.Hour() == 1:
				assert.Equal(t, 115.0, r.MW)
			case r.Zone == timeseries.ZoneSE1:
				assert.Equal(t, 100.0, r.MW)
			default:
				assert.Equal(t, 200.0, r.MW)
			}
		}
	})

	t.Run("no duplicate keys and sorted by zone then time", func(t *testing.T) {
		out := Reconcile(existing, []timeseries.Record{
			rec(2, timeseries.ZoneSE1, 120),
			rec(0, timeseries.ZoneSE2, 210),
		})

		seen := map[string]bool{}
		for _, r := range out {
			k := string(r.Zone) + r.Time.String()
			assert.False(t, seen[k], "duplicate key %s", k)
			seen[k] = true
		}
		for i := 1; i < len(out); i++ {
			prev, cur := out[i-1], out[i]
			ordered := prev.Zone < cur.Zone ||
				(prev.Zone == cur.Zone && prev.Time.Before(cur.Time))
			assert.True(t, ordered, "rows %d and %d out of order", i-1, i)
		}
	})

	t.Run("rows missing timestamp or zone are dropped", func(t *testing.T) {
		out := Reconcile(nil, []timeseries.Record{
			{Time: time.Time{}, Zone: timeseries.ZoneSE1, MW: 1},
			{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Zone: "", MW: 2},
			rec(0, timeseries.ZoneSE1, 3),
		})
		require.Len(t, out, 1)
		assert.Equal(t, 3.0, out[0].MW)
	})

	t.Run("both empty is an empty table", func(t *testing.T) {
		assert.Empty(t, Reconcile(nil, nil))
	})
}
