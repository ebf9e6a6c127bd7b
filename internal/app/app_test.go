package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordgrid/sweload/internal/config"
	"github.com/nordgrid/sweload/internal/entsoe"
	"github.com/nordgrid/sweload/internal/history"
	"github.com/nordgrid/sweload/internal/timeseries"
)

// fakeFetcher serves one hourly observation per hour of the requested
// window, value = base + hour offset, and records the windows it saw.
type fakeFetcher struct {
	base    float64
	windows [][2]time.Time
	err     error
}

func (f *fakeFetcher) FetchLoad(_ context.Context, zone timeseries.Zone, start, end time.Time) (timeseries.Frame, error) {
	if f.err != nil {
		return timeseries.Frame{}, f.err
	}
	f.windows = append(f.windows, [2]time.Time{start, end})

	frame := timeseries.Frame{IndexName: "date"}
	col := timeseries.Column{Name: "quantity", Numeric: true}
	for ts, i := start.UTC(), 0; ts.Before(end.UTC()); ts, i = ts.Add(time.Hour), i+1 {
		v := f.base + float64(i)
		frame.Index = append(frame.Index, ts)
		col.Floats = append(col.Floats, &v)
	}
	frame.Columns = []timeseries.Column{col}
	return frame, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		APIKey:                   "token",
		Zones:                    []timeseries.Zone{timeseries.ZoneSETotal, timeseries.ZoneSE1},
		DisplayTZ:                time.UTC,
		TZName:                   "UTC",
		BackfillWindowDays:       1,
		InitialHistoryWindowDays: 2,
		ChartViewDays:            1,
		DataFile:                 filepath.Join(dir, "data", "history.parquet"),
		OutputDir:                filepath.Join(dir, "docs"),
		SiteTitle:                "Test Dashboard",
		SiteTagline:              "test",
	}
}

func TestRunPipeline(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{base: 1000}
	store := history.NewStore(cfg.DataFile)
	a := NewWithDeps(cfg, fetcher, store, quietLogger())

	require.NoError(t, a.Run(context.Background()))

	// First run bootstraps the initial window, not the backfill window.
	require.NotEmpty(t, fetcher.windows)
	first := fetcher.windows[0]
	assert.Equal(t, 48*time.Hour, first[1].Sub(first[0]))

	records, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, records, 2*48) // two zones, hourly

	html, err := os.ReadFile(filepath.Join(cfg.OutputDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Test Dashboard")

	// Second run uses the shorter backfill window and revised values win.
	fetcher.base = 2000
	fetcher.windows = nil
	require.NoError(t, a.Run(context.Background()))

	second := fetcher.windows[0]
	assert.Equal(t, 24*time.Hour, second[1].Sub(second[0]))

	records, _, err = store.Load()
	require.NoError(t, err)
	assert.Len(t, records, 2*48, "revisions must overwrite, not append")
	revised := 0
	for _, rec := range records {
		if rec.MW >= 2000 {
			revised++
		}
	}
	assert.Equal(t, 2*24, revised)
}

func TestRunRequiresAPIKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.APIKey = ""
	a := NewWithDeps(cfg, &fakeFetcher{}, history.NewStore(cfg.DataFile), quietLogger())
	assert.Error(t, a.Run(context.Background()))
}

func TestRunPropagatesFetchError(t *testing.T) {
	cfg := testConfig(t)
	store := history.NewStore(cfg.DataFile)
	fetchErr := &entsoe.FetchError{Status: 401}
	a := NewWithDeps(cfg, &fakeFetcher{err: fetchErr}, store, quietLogger())

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, fetchErr)

	// The absent history file stays absent: no partial writes.
	_, ok, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.False(t, ok)
}

func TestDryRunWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = true
	store := history.NewStore(cfg.DataFile)
	a := NewWithDeps(cfg, &fakeFetcher{base: 500}, store, quietLogger())

	require.NoError(t, a.Run(context.Background()))

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "index.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestBackfill(t *testing.T) {
	cfg := testConfig(t)
	cfg.Zones = []timeseries.Zone{timeseries.ZoneSE3}
	fetcher := &fakeFetcher{base: 700}
	store := history.NewStore(cfg.DataFile)
	a := NewWithDeps(cfg, fetcher, store, quietLogger())

	start := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, a.Backfill(context.Background(), start, end))

	// One request per calendar-month chunk.
	assert.Len(t, fetcher.windows, 3)

	records, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, records, int(end.Sub(start).Hours()))

	err = a.Backfill(context.Background(), end, start)
	assert.ErrorIs(t, err, timeseries.ErrInvalidWindow)
}

func TestRenderWithoutHistory(t *testing.T) {
	cfg := testConfig(t)
	a := NewWithDeps(cfg, &fakeFetcher{}, history.NewStore(cfg.DataFile), quietLogger())
	assert.Error(t, a.Render(context.Background()))
}
