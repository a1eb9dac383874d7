package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// MemoryStore is an in-memory JobStore used for dry runs and tests. Jobs are
// keyed on (source_name, source_id), mirroring the SQL stores' primary key.
type MemoryStore struct {
	mu   sync.Mutex
	jobs map[memoryKey]model.CanonicalJob
}

type memoryKey struct {
	sourceName string
	sourceID   string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[memoryKey]model.CanonicalJob)}
}

func (s *MemoryStore) FindBySourceIdentity(_ context.Context, sourceName, sourceID string) (*model.CanonicalJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[memoryKey{sourceName, sourceID}]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (s *MemoryStore) FindByTitleCompany(_ context.Context, sourceName, title, company string) (*model.CanonicalJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, job := range s.jobs {
		if key.sourceName != sourceName {
			continue
		}
		if strings.EqualFold(job.Title, title) && strings.EqualFold(job.Company, company) {
			return &job, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Upsert(_ context.Context, job model.CanonicalJob) (model.CanonicalJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{job.SourceName, job.SourceID}
	if prev, ok := s.jobs[key]; ok {
		job.Views = prev.Views
		job.ApplicationsCount = prev.ApplicationsCount
	}
	s.jobs[key] = job
	return job, nil
}

func (s *MemoryStore) ListRecent(_ context.Context, limit int) ([]model.CanonicalJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]model.CanonicalJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].PostedAt.After(jobs[j].PostedAt) })

	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (s *MemoryStore) Sweep(_ context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	var n int64
	for key, job := range s.jobs {
		if job.IsActive && job.PostedAt.Before(cutoff) {
			job.IsActive = false
			s.jobs[key] = job
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored jobs.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *MemoryStore) Close() error { return nil }
