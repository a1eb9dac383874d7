package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ingestion daemon",
	Long:  "Run ingestion on the configured schedule; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.Schedule.Every.String(),
		"sources", cfg.Ingestion.Sources,
		"store", cfg.Store.Driver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	orch, err := buildOrchestrator(cfg, st, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	runOnce := func(ctx context.Context) {
		report, err := orch.Run(ctx, ingestConfig(cfg))
		if err != nil {
			logger.Error("scheduled ingestion failed", "error", err)
			return
		}
		logger.Info("scheduled ingestion complete",
			"run_id", report.RunID,
			"added", report.Totals.Added,
			"updated", report.Totals.Updated,
			"skipped", report.Totals.Skipped,
			"errored", report.Totals.Errored,
		)

		if cfg.Schedule.SweepAfter > 0 {
			n, err := st.Sweep(ctx, cfg.Schedule.SweepAfter)
			if err != nil {
				logger.Error("sweep failed", "error", err)
				return
			}
			if n > 0 {
				logger.Info("deactivated stale postings", "count", n)
			}
		}
	}

	sched := scheduler.New(cfg.Schedule.Every, runOnce, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	sched.Stop()
	logger.Info("goodbye")
	return nil
}
