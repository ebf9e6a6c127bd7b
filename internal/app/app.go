// Package app wires the pipeline: window calculation, upstream fetch, tidy
// normalization, history reconciliation and page rendering.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nordgrid/sweload/internal/analytics"
	"github.com/nordgrid/sweload/internal/config"
	"github.com/nordgrid/sweload/internal/entsoe"
	"github.com/nordgrid/sweload/internal/history"
	"github.com/nordgrid/sweload/internal/site"
	"github.com/nordgrid/sweload/internal/timeseries"
)

// valueName is the canonical value-column name of the storage schema.
const valueName = "load_mw"

// Fetcher is the upstream collaborator; satisfied by *entsoe.Client.
type Fetcher interface {
	FetchLoad(ctx context.Context, zone timeseries.Zone, start, end time.Time) (timeseries.Frame, error)
}

// App runs the batch pipeline for one invocation.
type App struct {
	cfg     config.Config
	fetcher Fetcher
	store   *history.Store
	log     *logrus.Logger
}

// New assembles the pipeline from configuration.
func New(cfg config.Config, log *logrus.Logger) *App {
	return &App{
		cfg:     cfg,
		fetcher: entsoe.New(cfg.APIKey, cfg.BaseURL, cfg.RequestTimeout),
		store:   history.NewStore(cfg.DataFile),
		log:     log,
	}
}

// NewWithDeps is New with the collaborators injected (tests).
func NewWithDeps(cfg config.Config, fetcher Fetcher, store *history.Store, log *logrus.Logger) *App {
	return &App{cfg: cfg, fetcher: fetcher, store: store, log: log}
}

// Run executes the regular pipeline: fetch the recent window for every
// configured zone, reconcile into the history file, rebuild the page.
func (a *App) Run(ctx context.Context) error {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return err
	}

	existing, present, err := a.store.Load()
	if err != nil {
		return err
	}

	days := a.cfg.BackfillWindowDays
	if !present {
		days = a.cfg.InitialHistoryWindowDays
		a.log.Infof("no history at %s, bootstrapping %d days", a.store.Path(), days)
	}

	start, end, err := timeseries.ComputeWindow(days, time.Now(), a.cfg.DisplayTZ)
	if err != nil {
		return err
	}
	if !start.Before(end) {
		a.log.Warn("empty fetch window, nothing to do")
		return nil
	}

	incoming, err := a.fetchRange(ctx, start, end)
	if err != nil {
		return err
	}

	merged := history.Reconcile(existing, incoming)
	a.log.Infof("reconciled %d incoming rows into %d total (%d before)", len(incoming), len(merged), len(existing))

	if a.cfg.DryRun {
		a.log.Infof("dry-run: skipping history write and page render")
		return nil
	}
	if err := a.store.Save(merged); err != nil {
		return err
	}
	return a.renderPage(merged)
}

// Backfill fetches [start, end) in calendar-month chunks and reconciles the
// whole batch at once, then rebuilds the page.
func (a *App) Backfill(ctx context.Context, start, end time.Time) error {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: backfill end must be after start", timeseries.ErrInvalidWindow)
	}

	existing, _, err := a.store.Load()
	if err != nil {
		return err
	}

	var incoming []timeseries.Record
	for _, chunk := range timeseries.MonthRanges(start, end) {
		a.log.Infof("backfilling %s..%s", chunk.Start.Format("2006-01-02"), chunk.End.Format("2006-01-02"))
		batch, err := a.fetchRange(ctx, chunk.Start, chunk.End)
		if err != nil {
			return err
		}
		incoming = append(incoming, batch...)
	}

	merged := history.Reconcile(existing, incoming)
	a.log.Infof("backfill reconciled %d rows into %d total", len(incoming), len(merged))

	if a.cfg.DryRun {
		a.log.Infof("dry-run: skipping history write and page render")
		return nil
	}
	if err := a.store.Save(merged); err != nil {
		return err
	}
	return a.renderPage(merged)
}

// Render rebuilds the page from the persisted history without fetching.
func (a *App) Render(context.Context) error {
	records, present, err := a.store.Load()
	if err != nil {
		return err
	}
	if !present {
		return fmt.Errorf("no history at %s, run fetch or backfill first", a.store.Path())
	}
	return a.renderPage(records)
}

// fetchRange fetches every configured zone over [start, end), normalizing
// each response into storage rows. Any upstream failure, including an
// empty-range acknowledgement, aborts the run; there is no partial success.
func (a *App) fetchRange(ctx context.Context, start, end time.Time) ([]timeseries.Record, error) {
	var out []timeseries.Record
	for _, zone := range a.cfg.Zones {
		frame, err := a.fetcher.FetchLoad(ctx, zone, start, end)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", zone, err)
		}

		series, dropped, err := timeseries.Normalize(frame, valueName)
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", zone, err)
		}
		if dropped > 0 {
			a.log.Warnf("%s: dropped %d unparseable rows", zone, dropped)
		}
		a.log.Infof("%s: fetched %d observations", zone, len(series))
		out = append(out, series.Records(zone)...)
	}
	return out, nil
}

func (a *App) renderPage(records []timeseries.Record) error {
	rows := timeseries.ToDisplay(records, a.cfg.DisplayTZ)
	rows = timeseries.WindowDisplay(rows, a.cfg.HistoryWindowDays)

	totalRows := rows
	if !a.cfg.SingleZone() {
		totalRows = nil
		for _, row := range rows {
			if row.Zone == timeseries.ZoneSETotal {
				totalRows = append(totalRows, row)
			}
		}
		if len(totalRows) == 0 {
			totalRows = rows
		}
	}

	page := site.Page{
		Title:   a.cfg.SiteTitle,
		Tagline: a.cfg.SiteTagline,
		TZName:  a.cfg.TZName,
		Sections: []site.Section{
			{
				ID:     "actual-load",
				Title:  "Actual Total Load",
				Blurb:  "Hourly total load per zone.",
				Figure: site.LoadFigure(rows, a.cfg.TZName, a.cfg.ChartViewDays),
			},
			{
				ID:     "daily-avg",
				Title:  "Daily Average Load",
				Blurb:  "Daily averages shown as bars.",
				Figure: site.DailyFigure(analytics.DailyAverages(totalRows), a.cfg.TZName),
			},
		},
		Peaks: analytics.YearlyPeaks(totalRows),
	}

	html, err := site.Render(page)
	if err != nil {
		return err
	}
	path, err := site.WritePage(a.cfg.OutputDir, html)
	if err != nil {
		return err
	}
	a.log.Infof("wrote %s (%d display rows)", path, len(rows))
	return nil
}
