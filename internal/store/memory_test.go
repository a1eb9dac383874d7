package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_UpsertAndFind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Upsert(ctx, sampleJob()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	found, err := s.FindBySourceIdentity(ctx, "adzuna", "123")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found == nil || found.Title != "Backend Engineer" {
		t.Fatalf("expected stored job, got %+v", found)
	}

	found, err = s.FindByTitleCompany(ctx, "adzuna", "backend engineer", "ACME")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found == nil {
		t.Fatal("expected case-insensitive title+company match")
	}

	if s.Len() != 1 {
		t.Errorf("expected 1 stored job, got %d", s.Len())
	}
}

func TestMemoryStore_UpsertPreservesCounters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	job := sampleJob()
	job.Views = 10
	job.ApplicationsCount = 3
	if _, err := s.Upsert(ctx, job); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	update := sampleJob()
	update.Title = "Senior Backend Engineer"
	stored, err := s.Upsert(ctx, update)
	if err != nil {
		t.Fatalf("re-upsert failed: %v", err)
	}
	if stored.Views != 10 || stored.ApplicationsCount != 3 {
		t.Errorf("expected counters preserved, got %d/%d", stored.Views, stored.ApplicationsCount)
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	old := sampleJob()
	old.SourceID = "old"
	old.PostedAt = time.Now().UTC().Add(-60 * 24 * time.Hour)
	if _, err := s.Upsert(ctx, old); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	n, err := s.Sweep(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deactivation, got %d", n)
	}

	found, _ := s.FindBySourceIdentity(ctx, "adzuna", "old")
	if found.IsActive {
		t.Error("expected swept job to be inactive")
	}
}
