package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nordgrid/sweload/internal/app"
	"github.com/nordgrid/sweload/internal/config"
	"github.com/nordgrid/sweload/internal/logging"
	"github.com/nordgrid/sweload/internal/site"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var dryRun bool

	root := &cobra.Command{
		Use:   "sweload",
		Short: "Fetches Swedish electricity load from ENTSO-E and publishes a static dashboard.",
		RunE: func(*cobra.Command, []string) error {
			cfg.DryRun = cfg.DryRun || dryRun
			return app.New(cfg, log).Run(ctx)
		},
		SilenceUsage: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch the recent window, reconcile it into history and rebuild the page.",
		RunE:  root.RunE,
	}

	var startFlag, endFlag string
	backfillCmd := &cobra.Command{
		Use:   "backfill",
		Short: "Fetch a historical range month by month and reconcile it into history.",
		RunE: func(*cobra.Command, []string) error {
			start, err := time.ParseInLocation("2006-01-02", startFlag, cfg.DisplayTZ)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			end, err := time.ParseInLocation("2006-01-02", endFlag, cfg.DisplayTZ)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			cfg.DryRun = cfg.DryRun || dryRun
			return app.New(cfg, log).Backfill(ctx, start, end)
		},
	}
	backfillCmd.Flags().StringVar(&startFlag, "start", "", "start date, YYYY-MM-DD inclusive")
	backfillCmd.Flags().StringVar(&endFlag, "end", "", "end date, YYYY-MM-DD exclusive")
	backfillCmd.MarkFlagRequired("start")
	backfillCmd.MarkFlagRequired("end")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Rebuild the page from the persisted history without fetching.",
		RunE: func(*cobra.Command, []string) error {
			return app.New(cfg, log).Render(ctx)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated site locally for preview.",
		RunE: func(*cobra.Command, []string) error {
			log.Infof("serving %s on :%d", cfg.OutputDir, cfg.Port)
			return site.Serve(ctx, cfg.OutputDir, cfg.Port)
		},
	}

	root.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log what would change without writing history or the page")
	root.AddCommand(runCmd, backfillCmd, renderCmd, serveCmd)

	if err := root.Execute(); err != nil {
		log.Errorf("sweload failed: %v", err)
		os.Exit(1)
	}
}
