package adapter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jobsift/jobsift/internal/model"
)

func writeInbox(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inbox.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write inbox: %v", err)
	}
	return path
}

func TestEmployerAdapter_Fetch_Success(t *testing.T) {
	path := writeInbox(t, `[
		{
			"id": "emp-001",
			"title": "Office Manager",
			"company": "Acme Corp",
			"location": "Delhi",
			"country": "IN",
			"description": "Manage office operations.",
			"requirements": "3 years experience",
			"apply_url": "https://acme.example/careers/emp-001",
			"posted_at": "2026-08-15T09:00:00Z",
			"salary_min": 400000,
			"salary_max": 600000,
			"currency": "INR",
			"job_type": "full-time",
			"experience_level": "mid",
			"remote": false
		}
	]`)

	a := NewEmployerAdapter(path)

	raws, meta, err := a.Fetch(context.Background(), model.SearchRequest{Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("expected 1 record, got %d", len(raws))
	}
	if meta.TotalResults != 1 {
		t.Errorf("expected TotalResults 1, got %d", meta.TotalResults)
	}

	r := raws[0]
	if r.SourceID != "emp-001" {
		t.Errorf("expected SourceID emp-001, got %s", r.SourceID)
	}
	if r.ExperienceText != "mid" {
		t.Errorf("expected ExperienceText mid, got %s", r.ExperienceText)
	}
	if r.IsRemote == nil || *r.IsRemote {
		t.Error("expected explicit remote flag false")
	}
	if r.SalaryMin == nil || *r.SalaryMin != 400000 {
		t.Errorf("expected SalaryMin 400000, got %v", r.SalaryMin)
	}
}

func TestEmployerAdapter_Fetch_PageBeyondFirstIsEmpty(t *testing.T) {
	path := writeInbox(t, `[{"id": "emp-001", "title": "A", "company": "B"}]`)

	a := NewEmployerAdapter(path)

	raws, _, err := a.Fetch(context.Background(), model.SearchRequest{Page: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 0 {
		t.Fatalf("expected empty page 2, got %d records", len(raws))
	}
}

func TestEmployerAdapter_Fetch_MissingInbox(t *testing.T) {
	a := NewEmployerAdapter(filepath.Join(t.TempDir(), "does-not-exist.json"))

	_, _, err := a.Fetch(context.Background(), model.SearchRequest{Page: 1})
	var pe *model.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *model.ProviderError, got %v", err)
	}
	if pe.Kind != model.KindUnavailable {
		t.Errorf("expected kind %s, got %s", model.KindUnavailable, pe.Kind)
	}
}

func TestEmployerAdapter_Fetch_MalformedInbox(t *testing.T) {
	path := writeInbox(t, `{not a json array`)

	a := NewEmployerAdapter(path)

	_, _, err := a.Fetch(context.Background(), model.SearchRequest{Page: 1})
	var pe *model.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *model.ProviderError, got %v", err)
	}
	if pe.Kind != model.KindMalformed {
		t.Errorf("expected kind %s, got %s", model.KindMalformed, pe.Kind)
	}
}

func TestEmployerAdapter_Fetch_HonorsLimit(t *testing.T) {
	path := writeInbox(t, `[
		{"id": "emp-1", "title": "A", "company": "X"},
		{"id": "emp-2", "title": "B", "company": "Y"},
		{"id": "emp-3", "title": "C", "company": "Z"}
	]`)

	a := NewEmployerAdapter(path)

	raws, meta, err := a.Fetch(context.Background(), model.SearchRequest{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 records, got %d", len(raws))
	}
	if meta.TotalResults != 3 {
		t.Errorf("expected TotalResults 3, got %d", meta.TotalResults)
	}
}
