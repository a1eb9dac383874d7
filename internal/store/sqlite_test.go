package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleJob() model.CanonicalJob {
	salaryMin, salaryMax := 50000.0, 70000.0
	return model.CanonicalJob{
		SourceName:      "adzuna",
		SourceID:        "123",
		Title:           "Backend Engineer",
		Company:         "Acme",
		Location:        "Bengaluru",
		Country:         "IN",
		Description:     "Build APIs.",
		ApplyURL:        "https://example.com/123",
		PostedAt:        time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Salary:          "INR 50000 - 70000",
		SalaryMin:       &salaryMin,
		SalaryMax:       &salaryMax,
		SalaryCurrency:  "INR",
		JobType:         model.JobTypeFullTime,
		ExperienceLevel: model.ExperienceMid,
		Skills:          []string{"python", "sql"},
		Sector:          "technology",
		IsActive:        true,
		RawPayload:      []byte(`{"id":"123"}`),
	}
}

func TestUpsert_InsertAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stored, err := s.Upsert(ctx, sampleJob())
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if stored.Title != "Backend Engineer" {
		t.Errorf("expected stored title, got %s", stored.Title)
	}

	found, err := s.FindBySourceIdentity(ctx, "adzuna", "123")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found == nil {
		t.Fatal("expected record, got nil")
	}
	if found.Company != "Acme" {
		t.Errorf("expected company Acme, got %s", found.Company)
	}
	if len(found.Skills) != 2 || found.Skills[0] != "python" {
		t.Errorf("expected skills round-trip, got %v", found.Skills)
	}
	if found.SalaryMin == nil || *found.SalaryMin != 50000 {
		t.Errorf("expected SalaryMin 50000, got %v", found.SalaryMin)
	}
	if !found.PostedAt.Equal(time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("expected PostedAt round-trip, got %v", found.PostedAt)
	}
}

func TestFindBySourceIdentity_Absent(t *testing.T) {
	s := newTestStore(t)

	found, err := s.FindBySourceIdentity(context.Background(), "adzuna", "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for absent record, got %+v", found)
	}
}

func TestFindByTitleCompany_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, sampleJob()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	found, err := s.FindByTitleCompany(ctx, "adzuna", "BACKEND ENGINEER", "acme")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found == nil {
		t.Fatal("expected case-insensitive match, got nil")
	}

	// Different source must not match.
	found, err = s.FindByTitleCompany(ctx, "reed", "Backend Engineer", "Acme")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found != nil {
		t.Error("expected no cross-source match")
	}
}

func TestUpsert_UpdatePreservesCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, sampleJob()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// Simulate downstream mutating the counters.
	if _, err := s.db.Exec(`UPDATE jobs SET views = 42, applications_count = 7 WHERE source_id = '123'`); err != nil {
		t.Fatalf("counter update failed: %v", err)
	}

	updated := sampleJob()
	updated.Title = "Senior Backend Engineer"
	stored, err := s.Upsert(ctx, updated)
	if err != nil {
		t.Fatalf("re-upsert failed: %v", err)
	}

	if stored.Title != "Senior Backend Engineer" {
		t.Errorf("expected updated title, got %s", stored.Title)
	}
	if stored.Views != 42 {
		t.Errorf("expected views preserved at 42, got %d", stored.Views)
	}
	if stored.ApplicationsCount != 7 {
		t.Errorf("expected applications_count preserved at 7, got %d", stored.ApplicationsCount)
	}
}

func TestListRecent_OrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, day := range []int{10, 20, 15} {
		job := sampleJob()
		job.SourceID = string(rune('a' + i))
		job.PostedAt = time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC)
		if _, err := s.Upsert(ctx, job); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	jobs, err := s.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if !jobs[0].PostedAt.After(jobs[1].PostedAt) {
		t.Errorf("expected newest first, got %v then %v", jobs[0].PostedAt, jobs[1].PostedAt)
	}
}

func TestSweep_DeactivatesOldPostings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := sampleJob()
	old.SourceID = "old"
	old.PostedAt = time.Now().UTC().Add(-60 * 24 * time.Hour)
	fresh := sampleJob()
	fresh.SourceID = "fresh"
	fresh.PostedAt = time.Now().UTC().Add(-24 * time.Hour)

	for _, job := range []model.CanonicalJob{old, fresh} {
		if _, err := s.Upsert(ctx, job); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	n, err := s.Sweep(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deactivation, got %d", n)
	}

	got, _ := s.FindBySourceIdentity(ctx, "adzuna", "old")
	if got.IsActive {
		t.Error("expected old posting to be inactive")
	}
	got, _ = s.FindBySourceIdentity(ctx, "adzuna", "fresh")
	if !got.IsActive {
		t.Error("expected fresh posting to stay active")
	}
}
