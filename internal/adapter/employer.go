package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jobsift/jobsift/internal/model"
)

// employerPosting is the schema employer-direct submissions arrive in.
type employerPosting struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Country         string   `json:"country"`
	Description     string   `json:"description"`
	Requirements    string   `json:"requirements"`
	ApplyURL        string   `json:"apply_url"`
	PostedAt        string   `json:"posted_at"`
	Salary          string   `json:"salary"`
	SalaryMin       *float64 `json:"salary_min"`
	SalaryMax       *float64 `json:"salary_max"`
	Currency        string   `json:"currency"`
	JobType         string   `json:"job_type"`
	ExperienceLevel string   `json:"experience_level"`
	Remote          *bool    `json:"remote"`
}

// EmployerAdapter reads employer-submitted postings from a local JSON inbox
// file. The inbox is written by the employer-facing surface, which is outside
// this pipeline; from here it is just another source.
type EmployerAdapter struct {
	inboxPath string
}

// NewEmployerAdapter creates an adapter over the given inbox file.
func NewEmployerAdapter(inboxPath string) *EmployerAdapter {
	return &EmployerAdapter{inboxPath: inboxPath}
}

func (a *EmployerAdapter) Name() string { return "employer" }

// Fetch reads the whole inbox. Paging does not apply: page 2 and beyond are
// empty so callers stop iterating.
func (a *EmployerAdapter) Fetch(_ context.Context, req model.SearchRequest) ([]model.RawJob, model.ProviderMeta, error) {
	meta := model.ProviderMeta{Source: a.Name(), Country: req.Country, Page: req.Page}
	if req.Page > 1 {
		return nil, meta, nil
	}

	data, err := os.ReadFile(a.inboxPath)
	if err != nil {
		return nil, meta, &model.ProviderError{
			Source: a.Name(),
			Kind:   model.KindUnavailable,
			Err:    fmt.Errorf("read inbox %s: %w", a.inboxPath, err),
		}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, meta, malformed(a.Name(), err)
	}

	limit := len(items)
	if req.Limit > 0 && req.Limit < limit {
		limit = req.Limit
	}
	meta.TotalResults = len(items)
	meta.ResultsPerPage = limit

	raws := make([]model.RawJob, 0, limit)
	for _, item := range items[:limit] {
		var p employerPosting
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, meta, malformed(a.Name(), err)
		}

		raws = append(raws, model.RawJob{
			SourceID:       p.ID,
			Title:          p.Title,
			Company:        p.Company,
			Location:       p.Location,
			Country:        p.Country,
			Description:    p.Description,
			Requirements:   p.Requirements,
			ApplyURL:       p.ApplyURL,
			PostedAt:       p.PostedAt,
			SalaryText:     p.Salary,
			SalaryMin:      p.SalaryMin,
			SalaryMax:      p.SalaryMax,
			Currency:       p.Currency,
			JobTypeText:    p.JobType,
			ExperienceText: p.ExperienceLevel,
			IsRemote:       p.Remote,
			Payload:        item,
		})
	}

	return raws, meta, nil
}
