package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/store"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ingestion and print the report",
	Long:  "Run the pipeline once across all configured sources and print the ingestion report as JSON on stdout.",
	RunE:  runIngestion,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "ingest into an in-memory store, persist nothing")
	rootCmd.AddCommand(runCmd)
}

func runIngestion(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st jobStore
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be persisted")
		st = store.NewMemoryStore()
	} else {
		st, err = openStore(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
	}
	defer st.Close()

	orch, err := buildOrchestrator(cfg, st, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	report, err := orch.Run(ctx, ingestConfig(cfg))
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	return nil
}
