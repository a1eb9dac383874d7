package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// Adapter is a decorator that retries transient provider failures with
// exponential backoff and jitter before delegating to the wrapped
// SourceAdapter. Auth and malformed-response errors are never retried:
// they are configuration/contract problems that will not self-resolve.
type Adapter struct {
	inner      model.SourceAdapter
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// Wrap decorates a SourceAdapter with retry logic.
// maxRetries is the number of additional attempts after the first failure
// (default 2, i.e. 3 attempts total). baseDelay is the delay before the
// first retry (default 500ms), doubled on each subsequent retry.
func Wrap(inner model.SourceAdapter, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Adapter {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &Adapter{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

func (a *Adapter) Name() string { return a.inner.Name() }

// Fetch attempts the wrapped fetch, retrying on transient provider errors.
func (a *Adapter) Fetch(ctx context.Context, req model.SearchRequest) ([]model.RawJob, model.ProviderMeta, error) {
	raws, meta, err := a.inner.Fetch(ctx, req)
	if err == nil || !model.IsTransient(err) {
		return raws, meta, err
	}

	lastErr := err
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		delay := a.backoffDelay(attempt, lastErr)

		a.logger.Warn("retrying after transient provider error",
			"source", a.inner.Name(),
			"attempt", attempt,
			"max_retries", a.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, meta, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		raws, meta, err = a.inner.Fetch(ctx, req)
		if err == nil || !model.IsTransient(err) {
			return raws, meta, err
		}
		lastErr = err
	}

	return nil, meta, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A provider-supplied Retry-After duration takes precedence.
func (a *Adapter) backoffDelay(attempt int, err error) time.Duration {
	var pe *model.ProviderError
	if errors.As(err, &pe) && pe.RetryAfter > 0 {
		return pe.RetryAfter
	}

	delay := a.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}
