// Package scheduler runs the ingestion pipeline on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc is one scheduled ingestion invocation.
type RunFunc func(ctx context.Context)

// Scheduler wraps a cron runner around the ingestion pipeline using an
// "@every" spec derived from the configured interval.
type Scheduler struct {
	cron   *cron.Cron
	every  time.Duration
	run    RunFunc
	logger *slog.Logger
}

// New creates a Scheduler that invokes run every interval.
func New(every time.Duration, run RunFunc, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		every:  every,
		run:    run,
		logger: logger,
	}
}

// Start registers the job and starts the cron loop. The first run fires
// immediately rather than waiting a full interval.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.every <= 0 {
		return fmt.Errorf("schedule interval must be positive, got %v", s.every)
	}
	spec := fmt.Sprintf("@every %s", s.every)

	_, err := s.cron.AddFunc(spec, func() { s.run(ctx) })
	if err != nil {
		return fmt.Errorf("schedule ingestion job (%s): %w", spec, err)
	}

	s.logger.Info("scheduler starting", "interval", s.every)
	s.cron.Start()

	go s.run(ctx)
	return nil
}

// Stop halts the cron loop and waits for a running invocation to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
