package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SourceLimiter enforces a minimum delay between consecutive requests to the
// same provider. It is injected into the orchestrator rather than living as
// package state so tests can substitute a deterministic fake.
type SourceLimiter struct {
	mu        sync.Mutex
	lastCall  map[string]time.Time // key: source name
	minDelay  time.Duration
	overrides map[string]time.Duration
}

// New creates a limiter with a default minimum delay and optional per-source
// overrides.
func New(minDelay time.Duration, overrides map[string]time.Duration) *SourceLimiter {
	return &SourceLimiter{
		lastCall:  make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: overrides,
	}
}

// delayFor returns the configured delay for the given source.
func (l *SourceLimiter) delayFor(source string) time.Duration {
	if d, ok := l.overrides[source]; ok {
		return d
	}
	return l.minDelay
}

// Wait blocks until enough time has passed since the last request to the
// given source. Returns an error if the context is cancelled while waiting.
func (l *SourceLimiter) Wait(ctx context.Context, source string) error {
	minDelay := l.delayFor(source)
	if minDelay <= 0 {
		return nil
	}

	l.mu.Lock()
	last, ok := l.lastCall[source]
	now := time.Now()

	if !ok || now.Sub(last) >= minDelay {
		l.lastCall[source] = now
		l.mu.Unlock()
		return nil
	}

	remaining := minDelay - now.Sub(last)
	l.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", source, ctx.Err())
	case <-time.After(remaining):
	}

	l.mu.Lock()
	l.lastCall[source] = time.Now()
	l.mu.Unlock()

	return nil
}
