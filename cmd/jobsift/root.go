package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/adapter"
	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/ingest"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
	"github.com/jobsift/jobsift/internal/ratelimit"
	"github.com/jobsift/jobsift/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobsift",
	Short: "Job posting ingestion pipeline",
	Long:  "JobSift pulls job postings from multiple providers, normalizes them into one schema and upserts them into a store.",
	// Default to `run` so that `jobsift` with no args performs one ingestion.
	RunE: runIngestion,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSIFT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSIFT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSIFT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// jobStore is the union of what the commands need from a store backend.
type jobStore interface {
	model.JobStore
	ListRecent(ctx context.Context, limit int) ([]model.CanonicalJob, error)
	Sweep(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (jobStore, error) {
	switch cfg.Store.Driver {
	case "postgres":
		logger.Info("using postgres store")
		return store.NewPostgresStore(ctx, cfg.Store.DSN)
	case "memory":
		logger.Info("using in-memory store, nothing will be persisted")
		return store.NewMemoryStore(), nil
	default:
		logger.Info("using sqlite store", "path", cfg.Store.Path)
		return store.NewSQLiteStore(cfg.Store.Path)
	}
}

func buildAdapters(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.SourceAdapter {
	var adapters []model.SourceAdapter
	for _, name := range cfg.Ingestion.Sources {
		switch name {
		case "adzuna":
			adapters = append(adapters, adapter.NewAdzunaAdapter(cfg.Providers.Adzuna.AppID, cfg.Providers.Adzuna.AppKey, httpClient))
		case "jsearch":
			adapters = append(adapters, adapter.NewJSearchAdapter(cfg.Providers.JSearch.APIKey, httpClient))
		case "reed":
			adapters = append(adapters, adapter.NewReedAdapter(cfg.Providers.Reed.APIKey, httpClient))
		case "employer":
			adapters = append(adapters, adapter.NewEmployerAdapter(cfg.Providers.Employer.InboxPath))
		case "generated":
			adapters = append(adapters, adapter.NewGeneratedAdapter())
		default:
			logger.Warn("unsupported source, skipping", "source", name)
		}
	}
	return adapters
}

func buildOrchestrator(cfg *config.Config, st model.JobStore, logger *slog.Logger) (*ingest.Orchestrator, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	adapters := buildAdapters(cfg, httpClient, logger)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no usable ingestion sources")
	}

	// All adapters share one limiter so runs can't stampede a provider.
	limiter := ratelimit.New(cfg.RateLimit.MinDelay, cfg.RateLimit.SourceOverrides)
	logger.Info("rate limiter configured", "min_delay", cfg.RateLimit.MinDelay.String())

	return ingest.New(ingest.Options{
		Adapters:       adapters,
		Normalizer:     normalize.New(cfg.Ingestion.FallbackCountry, logger),
		Store:          st,
		Limiter:        limiter,
		Logger:         logger,
		MaxRetries:     cfg.Ingestion.MaxRetries,
		RetryBaseDelay: cfg.Ingestion.RetryBaseDelay,
	}), nil
}

func ingestConfig(cfg *config.Config) ingest.Config {
	return ingest.Config{
		Sources:          cfg.Ingestion.Sources,
		Query:            cfg.Ingestion.Query,
		Countries:        cfg.Ingestion.Countries,
		Location:         cfg.Ingestion.Location,
		MaxJobsPerSource: cfg.Ingestion.MaxJobsPerSource,
		PageSize:         cfg.Ingestion.PageSize,
		Concurrency:      cfg.Ingestion.Concurrency,
		Overwrite:        cfg.Ingestion.Overwrite,
		Deduplicate:      cfg.Ingestion.Deduplicate,
		Timeout:          cfg.Ingestion.Timeout,
	}
}
