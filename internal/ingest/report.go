package ingest

import (
	"time"

	"github.com/google/uuid"
)

// SourceReport summarizes one source's outcome in a run. Every fetched
// record lands in exactly one of Added, Updated, Skipped or Errored.
type SourceReport struct {
	Source     string   `json:"source"`
	Found      int      `json:"found"`
	Added      int      `json:"added"`
	Updated    int      `json:"updated"`
	Skipped    int      `json:"skipped"`
	Errored    int      `json:"errored"`
	DurationMs int64    `json:"durationMs"`
	Errors     []string `json:"errors,omitempty"`
}

// Totals aggregates the per-source counters.
type Totals struct {
	Found   int `json:"found"`
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// Report is the outcome of one ingestion run. Sources appear in the order
// they were configured, independent of the order workers finished in.
type Report struct {
	RunID      string         `json:"runId"`
	StartedAt  time.Time      `json:"startedAt"`
	DurationMs int64          `json:"durationMs"`
	Sources    []SourceReport `json:"sources"`
	Totals     Totals         `json:"totals"`
}

func newReport(sources []string) *Report {
	r := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Sources:   make([]SourceReport, len(sources)),
	}
	for i, name := range sources {
		r.Sources[i] = SourceReport{Source: name}
	}
	return r
}

func (r *Report) finalize() {
	r.DurationMs = time.Since(r.StartedAt).Milliseconds()
	for _, s := range r.Sources {
		r.Totals.Found += s.Found
		r.Totals.Added += s.Added
		r.Totals.Updated += s.Updated
		r.Totals.Skipped += s.Skipped
		r.Totals.Errored += s.Errored
	}
}

// maxErrorsPerSource caps the error strings retained per source so a
// thousand-record outage doesn't bloat the report.
const maxErrorsPerSource = 20

func (s *SourceReport) recordError(err error) {
	s.Errored++
	if len(s.Errors) < maxErrorsPerSource {
		s.Errors = append(s.Errors, err.Error())
	}
}
