// Package ingest runs the fetch -> normalize -> classify -> dedup -> upsert
// pipeline across configured sources and produces a run report.
package ingest

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jobsift/jobsift/internal/classify"
	"github.com/jobsift/jobsift/internal/dedup"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
	"github.com/jobsift/jobsift/internal/retry"
)

// RateLimiter paces outbound provider calls. Injected so tests can
// substitute a no-op.
type RateLimiter interface {
	Wait(ctx context.Context, source string) error
}

// NopLimiter never waits.
type NopLimiter struct{}

func (NopLimiter) Wait(context.Context, string) error { return nil }

// Config describes one ingestion run.
type Config struct {
	Sources   []string // report order follows this order
	Query     string
	Countries []string // ISO alpha-2; defaults to ["IN"]
	Location  string

	MaxJobsPerSource int // cap per source across all countries, default 50
	PageSize         int // per-request cap, default 20
	Concurrency      int // sources ingested in parallel, default 4

	Overwrite   bool // refresh existing records instead of skipping
	Deduplicate bool // when false every record is upserted blindly

	Timeout time.Duration // whole-run deadline, zero means none
}

func (c *Config) applyDefaults() {
	if len(c.Countries) == 0 {
		c.Countries = []string{"IN"}
	}
	if c.MaxJobsPerSource <= 0 {
		c.MaxJobsPerSource = 50
	}
	if c.PageSize <= 0 {
		c.PageSize = 20
	}
	if c.PageSize > c.MaxJobsPerSource {
		c.PageSize = c.MaxJobsPerSource
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
}

// Options wires an Orchestrator.
type Options struct {
	Adapters   []model.SourceAdapter
	Normalizer *normalize.Normalizer
	Store      model.JobStore
	Limiter    RateLimiter
	Logger     *slog.Logger

	MaxRetries     int           // transient fetch retries per request
	RetryBaseDelay time.Duration // first-retry delay
}

// Orchestrator drives ingestion runs. It owns no state beyond its wiring and
// is safe for concurrent Run calls.
type Orchestrator struct {
	adapters   map[string]model.SourceAdapter
	normalizer *normalize.Normalizer
	engine     *dedup.Engine
	store      model.JobStore
	limiter    RateLimiter
	logger     *slog.Logger

	maxRetries int
	retryBase  time.Duration
}

// New builds an Orchestrator from its wiring options.
func New(opts Options) *Orchestrator {
	adapters := make(map[string]model.SourceAdapter, len(opts.Adapters))
	for _, a := range opts.Adapters {
		adapters[a.Name()] = a
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NopLimiter{}
	}
	return &Orchestrator{
		adapters:   adapters,
		normalizer: opts.Normalizer,
		engine:     dedup.New(opts.Store),
		store:      opts.Store,
		limiter:    limiter,
		logger:     opts.Logger,
		maxRetries: opts.MaxRetries,
		retryBase:  opts.RetryBaseDelay,
	}
}

// Run ingests all configured sources and always returns a report, even when
// every source fails. The only non-report outcome is a configuration error
// detected before any work starts.
func (o *Orchestrator) Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := o.validate(cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	report := newReport(cfg.Sources)
	o.logger.Info("ingestion run starting",
		"run_id", report.RunID,
		"sources", cfg.Sources,
		"countries", cfg.Countries,
		"query", cfg.Query,
	)

	sem := make(chan struct{}, cfg.Concurrency)
	var wg sync.WaitGroup
	for i, name := range cfg.Sources {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			o.ingestSource(ctx, cfg, o.adapters[name], &report.Sources[i])
		}(i, name)
	}
	wg.Wait()

	report.finalize()
	o.logger.Info("ingestion run finished",
		"run_id", report.RunID,
		"duration_ms", report.DurationMs,
		"found", report.Totals.Found,
		"added", report.Totals.Added,
		"updated", report.Totals.Updated,
		"skipped", report.Totals.Skipped,
		"errored", report.Totals.Errored,
	)
	return report, nil
}

func (o *Orchestrator) validate(cfg Config) error {
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	seen := make(map[string]bool, len(cfg.Sources))
	for _, name := range cfg.Sources {
		if _, ok := o.adapters[name]; !ok {
			return fmt.Errorf("unknown source %q", name)
		}
		if seen[name] {
			return fmt.Errorf("source %q configured twice", name)
		}
		seen[name] = true
	}
	return nil
}

// ingestSource runs the pipeline for one source, filling sr. A fetch failure
// aborts the current country's pagination and moves on; a record failure
// costs only that record.
func (o *Orchestrator) ingestSource(ctx context.Context, cfg Config, adapter model.SourceAdapter, sr *SourceReport) {
	start := time.Now()
	defer func() { sr.DurationMs = time.Since(start).Milliseconds() }()

	fetcher := retry.Wrap(adapter, o.maxRetries, o.retryBase, o.logger)
	remaining := cfg.MaxJobsPerSource

	for _, country := range cfg.Countries {
		if remaining <= 0 {
			break
		}

		for page := 1; remaining > 0; page++ {
			if err := o.limiter.Wait(ctx, adapter.Name()); err != nil {
				sr.recordError(err)
				return
			}

			req := model.SearchRequest{
				Query:    cfg.Query,
				Country:  country,
				Page:     page,
				Limit:    min(cfg.PageSize, remaining),
				Location: cfg.Location,
			}

			raws, meta, err := fetcher.Fetch(ctx, req)
			if err != nil {
				sr.recordError(fmt.Errorf("fetch %s page %d: %w", country, page, err))
				o.logger.Error("source fetch failed",
					"source", adapter.Name(),
					"country", country,
					"page", page,
					"error", err,
				)
				break
			}

			sr.Found += len(raws)
			remaining -= len(raws)

			for _, raw := range raws {
				o.processRecord(ctx, cfg, raw, meta, sr)
			}

			if len(raws) < req.Limit {
				break
			}
		}
	}
}

// processRecord takes one raw record through normalize, classify, dedup and
// upsert. Each record lands in exactly one report bucket.
func (o *Orchestrator) processRecord(ctx context.Context, cfg Config, raw model.RawJob, meta model.ProviderMeta, sr *SourceReport) {
	job := o.normalizer.Normalize(raw, meta)

	res := classify.Classify(job.Title, job.Description, job.Company)
	job.Skills = res.Skills
	job.Sector = res.Sector

	if !cfg.Deduplicate {
		ensureSourceID(&job)
		if _, err := o.store.Upsert(ctx, job); err != nil {
			sr.recordError(&model.PersistError{Err: err})
			return
		}
		sr.Added++
		return
	}

	resolution, err := o.engine.Resolve(ctx, job, cfg.Overwrite)
	if err != nil {
		sr.recordError(err)
		return
	}

	switch resolution.Action {
	case dedup.ActionSkip:
		sr.Skipped++
	case dedup.ActionCreate:
		ensureSourceID(&job)
		if _, err := o.store.Upsert(ctx, job); err != nil {
			sr.recordError(&model.PersistError{Err: err})
			return
		}
		sr.Added++
	case dedup.ActionUpdate:
		if job.SourceID == "" && resolution.Existing != nil {
			job.SourceID = resolution.Existing.SourceID
		}
		ensureSourceID(&job)
		if _, err := o.store.Upsert(ctx, job); err != nil {
			sr.recordError(&model.PersistError{Err: err})
			return
		}
		sr.Updated++
	}
}

// ensureSourceID synthesizes a deterministic identifier for records whose
// provider sent none, so re-ingestion of the same posting maps to the same
// row.
func ensureSourceID(job *model.CanonicalJob) {
	if job.SourceID != "" {
		return
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s",
		job.SourceName,
		strings.ToLower(job.Title),
		strings.ToLower(job.Company),
		strings.ToLower(job.Location),
	)
	job.SourceID = fmt.Sprintf("fp-%x", h.Sum64())
}
