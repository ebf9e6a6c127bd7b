package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nordgrid/sweload/internal/timeseries"
)

const (
	defaultZones          = "SE_total,SE1,SE2,SE3,SE4"
	defaultDisplayTZ      = "Europe/Stockholm"
	defaultDataFile       = "data/load_history.parquet"
	defaultOutputDir      = "docs"
	defaultSiteTitle      = "Sweden Load Dashboard"
	defaultSiteTagline    = "Interactive charts generated from ENTSO-E data"
	defaultBackfillDays   = 3
	defaultInitialDays    = 30
	defaultViewDays       = 7
	defaultRequestTimeout = 30 * time.Second
	defaultPort           = 8080
)

// Config holds runtime configuration for a single invocation. It is built
// once from the environment and immutable afterwards.
type Config struct {
	APIKey  string
	BaseURL string

	Zones     []timeseries.Zone
	DisplayTZ *time.Location
	TZName    string

	BackfillWindowDays       int
	InitialHistoryWindowDays int
	HistoryWindowDays        int
	ChartViewDays            int

	DataFile  string
	OutputDir string

	SiteTitle   string
	SiteTagline string

	RequestTimeout time.Duration
	Port           int
	LogLevel       string
	DryRun         bool
}

// SingleZone reports whether the run tracks exactly one zone.
func (c Config) SingleZone() bool { return len(c.Zones) == 1 }

// Load reads configuration from environment variables (optionally .env).
// The API key is validated by the commands that fetch, not here, so render
// and serve work without one.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIKey:                   strings.TrimSpace(os.Getenv("ENTSOE_API_KEY")),
		BaseURL:                  strings.TrimSpace(os.Getenv("ENTSOE_BASE_URL")),
		TZName:                   defaultDisplayTZ,
		BackfillWindowDays:       defaultBackfillDays,
		InitialHistoryWindowDays: defaultInitialDays,
		HistoryWindowDays:        0,
		ChartViewDays:            defaultViewDays,
		DataFile:                 defaultDataFile,
		OutputDir:                defaultOutputDir,
		SiteTitle:                defaultSiteTitle,
		SiteTagline:              defaultSiteTagline,
		RequestTimeout:           defaultRequestTimeout,
		Port:                     defaultPort,
		LogLevel:                 "info",
	}

	zoneSpec := strings.TrimSpace(os.Getenv("ZONES"))
	if zoneSpec == "" {
		zoneSpec = defaultZones
	}
	zones, err := timeseries.ParseZones(zoneSpec)
	if err != nil {
		return cfg, fmt.Errorf("invalid ZONES: %w", err)
	}
	cfg.Zones = zones

	if tz := strings.TrimSpace(os.Getenv("DISPLAY_TZ")); tz != "" {
		cfg.TZName = tz
	}
	loc, err := time.LoadLocation(cfg.TZName)
	if err != nil {
		return cfg, fmt.Errorf("invalid DISPLAY_TZ: %w", err)
	}
	cfg.DisplayTZ = loc

	for _, entry := range []struct {
		env string
		dst *int
		min int
	}{
		{"BACKFILL_WINDOW_DAYS", &cfg.BackfillWindowDays, 0},
		{"INITIAL_HISTORY_WINDOW_DAYS", &cfg.InitialHistoryWindowDays, 1},
		{"HISTORY_WINDOW_DAYS", &cfg.HistoryWindowDays, 0},
		{"CHART_VIEW_DAYS", &cfg.ChartViewDays, 1},
		{"PORT", &cfg.Port, 1},
	} {
		v := strings.TrimSpace(os.Getenv(entry.env))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < entry.min {
			return cfg, fmt.Errorf("invalid %s: %q", entry.env, v)
		}
		*entry.dst = n
	}

	if v := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("DATA_FILE")); v != "" {
		cfg.DataFile = v
	}
	if v := strings.TrimSpace(os.Getenv("OUTPUT_DIR")); v != "" {
		cfg.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SITE_TITLE")); v != "" {
		cfg.SiteTitle = v
	}
	if v := strings.TrimSpace(os.Getenv("SITE_TAGLINE")); v != "" {
		cfg.SiteTagline = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	return cfg, nil
}

// RequireAPIKey fails when no ENTSO-E security token is configured.
func (c Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return errors.New("ENTSOE_API_KEY is required")
	}
	return nil
}
