package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsImmediatelyOnStart(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Hour, func(context.Context) { runs.Add(1) }, testLogger())

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected an immediate first run")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestScheduler_StopWaitsForCompletion(t *testing.T) {
	done := make(chan struct{})
	s := New(time.Hour, func(context.Context) {
		close(done)
	}, testLogger())

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never happened")
	}

	s.Stop()
}

func TestScheduler_InvalidIntervalRejected(t *testing.T) {
	s := New(0, func(context.Context) {}, testLogger())

	if err := s.Start(context.Background()); err == nil {
		t.Error("expected error for zero interval")
		s.Stop()
	}
}
