package site

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordgrid/sweload/internal/analytics"
	"github.com/nordgrid/sweload/internal/timeseries"
)

func sampleRows() []timeseries.DisplayRow {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var rows []timeseries.DisplayRow
	for _, zone := range []timeseries.Zone{timeseries.ZoneSETotal, timeseries.ZoneSE1} {
		for h := 0; h < 48; h++ {
			rows = append(rows, timeseries.DisplayRow{
				Time: base.Add(time.Duration(h) * time.Hour),
				Zone: zone,
				MW:   1000 + float64(h),
			})
		}
	}
	return rows
}

func TestLoadFigure(t *testing.T) {
	fig := LoadFigure(sampleRows(), "Europe/Stockholm", 1)

	require.Len(t, fig.Data, 2)
	assert.Equal(t, "SE_total", fig.Data[0].Name)
	assert.Equal(t, 3.0, fig.Data[0].Line.Width)
	assert.Equal(t, "hv", fig.Data[0].Line.Shape)
	assert.Equal(t, 2.0, fig.Data[1].Line.Width)
	assert.Len(t, fig.Data[0].X, 48)

	require.Len(t, fig.Layout.XAxis.Range, 2)
	assert.Equal(t, "2024-03-01 23:00:00", fig.Layout.XAxis.Range[0])
	assert.Equal(t, "2024-03-02 23:00:00", fig.Layout.XAxis.Range[1])
	require.NotNil(t, fig.Layout.Legend)
	assert.Equal(t, "x unified", fig.Layout.HoverMode)
}

func TestLoadFigureSingleZone(t *testing.T) {
	rows := sampleRows()[:48]
	fig := LoadFigure(rows, "UTC", 0)

	require.Len(t, fig.Data, 1)
	assert.Empty(t, fig.Data[0].Name)
	assert.Nil(t, fig.Layout.Legend)
	assert.Empty(t, fig.Layout.XAxis.Range)
}

func TestRenderAndWritePage(t *testing.T) {
	rows := sampleRows()
	page := Page{
		Title:   "Sweden Load Dashboard",
		Tagline: "Interactive charts generated from ENTSO-E data",
		TZName:  "Europe/Stockholm",
		Sections: []Section{
			{ID: "actual-load", Title: "Actual Total Load", Blurb: "Hourly load.", Figure: LoadFigure(rows, "Europe/Stockholm", 7)},
			{ID: "daily-avg", Title: "Daily Average Load", Blurb: "Daily averages as bars.", Figure: DailyFigure(analytics.DailyAverages(rows), "Europe/Stockholm")},
		},
		Peaks: []analytics.YearlyPeak{
			{Year: 2024, Time: time.Date(2024, 3, 2, 23, 0, 0, 0, time.UTC), MW: 1047},
		},
	}

	html, err := Render(page)
	require.NoError(t, err)

	doc := string(html)
	assert.Contains(t, doc, `<section id="actual-load">`)
	assert.Contains(t, doc, `<section id="daily-avg">`)
	assert.Contains(t, doc, `<section id="yearly-peaks">`)
	assert.Contains(t, doc, "cdn.plot.ly")
	assert.Contains(t, doc, `"shape":"hv"`)
	assert.Contains(t, doc, "2024-03-02 23:00")
	assert.Contains(t, doc, "Times are displayed in Europe/Stockholm.")

	dir := filepath.Join(t.TempDir(), "docs")
	path, err := WritePage(dir, html)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.html"), path)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, html, onDisk)
}
