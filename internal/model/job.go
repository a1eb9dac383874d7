package model

import (
	"context"
	"encoding/json"
	"time"
)

// JobType classifies the employment arrangement of a posting.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeTemporary  JobType = "temporary"
	JobTypeFreelance  JobType = "freelance"
)

// ExperienceLevel classifies the seniority of a posting.
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

// CanonicalJob is the normalized, schema-uniform job record used internally
// regardless of provider origin. (SourceName, SourceID) identifies a posting
// across re-ingestion runs.
type CanonicalJob struct {
	SourceName string `json:"sourceName"`
	SourceID   string `json:"sourceId"`

	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Country  string `json:"country"` // ISO alpha-2

	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	ApplyURL     string `json:"applyUrl,omitempty"`

	PostedAt time.Time `json:"postedAt"`

	Salary         string   `json:"salary,omitempty"` // display string
	SalaryMin      *float64 `json:"salaryMin"`
	SalaryMax      *float64 `json:"salaryMax"`
	SalaryCurrency string   `json:"salaryCurrency,omitempty"`

	JobType         JobType         `json:"jobType"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`

	Skills []string `json:"skills"`
	Sector string   `json:"sector"`

	IsRemote   bool `json:"isRemote"`
	IsHybrid   bool `json:"isHybrid"`
	IsUrgent   bool `json:"isUrgent"`
	IsFeatured bool `json:"isFeatured"`
	IsActive   bool `json:"isActive"`

	// Mutated only by downstream consumers, never by this pipeline.
	Views             int64 `json:"views"`
	ApplicationsCount int64 `json:"applicationsCount"`

	// Original provider response item, retained for debugging/audit.
	RawPayload json.RawMessage `json:"rawPayload,omitempty"`
}

// SearchRequest is the query an adapter translates into a provider call.
type SearchRequest struct {
	Query   string
	Country string // ISO alpha-2
	Page    int    // 1-based
	Limit   int    // caller-supplied result cap per page

	Location        string
	JobType         JobType
	ExperienceLevel ExperienceLevel
	IsRemote        *bool
	SalaryMin       *float64
	SalaryMax       *float64
	Sector          string
}

// SourceAdapter fetches postings from one provider and translates them into
// the common intermediate RawJob. Adapters are stateless and safely retryable.
type SourceAdapter interface {
	Name() string
	Fetch(ctx context.Context, req SearchRequest) ([]RawJob, ProviderMeta, error)
}

// JobStore is the narrow persistence boundary the pipeline depends on.
// FindBySourceIdentity returns (nil, nil) when no record exists.
// FindByTitleCompany backs the fuzzy dedup fallback and matches
// case-insensitively within a single source.
type JobStore interface {
	FindBySourceIdentity(ctx context.Context, sourceName, sourceID string) (*CanonicalJob, error)
	FindByTitleCompany(ctx context.Context, sourceName, title, company string) (*CanonicalJob, error)
	Upsert(ctx context.Context, job CanonicalJob) (CanonicalJob, error)
}
