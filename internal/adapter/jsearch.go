package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jobsift/jobsift/internal/model"
)

const (
	jsearchBaseURL     = "https://jsearch.p.rapidapi.com/search"
	jsearchHost        = "jsearch.p.rapidapi.com"
	jsearchMaxPageSize = 20
)

// jsearchJob mirrors a single item in the JSearch data array.
type jsearchJob struct {
	JobID             string   `json:"job_id"`
	JobTitle          string   `json:"job_title"`
	EmployerName      string   `json:"employer_name"`
	JobCity           string   `json:"job_city"`
	JobCountry        string   `json:"job_country"`
	JobDescription    string   `json:"job_description"`
	JobApplyLink      string   `json:"job_apply_link"`
	JobPostedAt       string   `json:"job_posted_at_datetime_utc"`
	JobEmploymentType string   `json:"job_employment_type"`
	JobIsRemote       bool     `json:"job_is_remote"`
	JobMinSalary      *float64 `json:"job_min_salary"`
	JobMaxSalary      *float64 `json:"job_max_salary"`
	JobSalaryCurrency string   `json:"job_salary_currency"`
	JobHighlights     struct {
		Qualifications []string `json:"Qualifications"`
	} `json:"job_highlights"`
}

// JSearchAdapter fetches postings from the JSearch API on RapidAPI.
type JSearchAdapter struct {
	apiKey string
	client *http.Client
}

// NewJSearchAdapter creates an adapter authenticated with a RapidAPI key.
func NewJSearchAdapter(apiKey string, client *http.Client) *JSearchAdapter {
	return &JSearchAdapter{apiKey: apiKey, client: client}
}

func (a *JSearchAdapter) Name() string { return "jsearch" }

// Fetch retrieves one page of postings for req.
func (a *JSearchAdapter) Fetch(ctx context.Context, req model.SearchRequest) ([]model.RawJob, model.ProviderMeta, error) {
	meta := model.ProviderMeta{Source: a.Name(), Country: req.Country, Page: req.Page}
	if a.apiKey == "" {
		return nil, meta, authError(a.Name(), fmt.Errorf("RAPIDAPI_KEY not configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := clampLimit(req.Limit, jsearchMaxPageSize)

	query := req.Query
	if req.Location != "" {
		query += " in " + req.Location
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")
	params.Set("country", strings.ToLower(req.Country))
	if req.IsRemote != nil && *req.IsRemote {
		params.Set("work_from_home", "true")
	}
	if req.JobType != "" {
		params.Set("employment_types", jsearchEmploymentType(req.JobType))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, jsearchBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, meta, fmt.Errorf("jsearch request: %w", err)
	}
	httpReq.Header.Set("X-RapidAPI-Key", a.apiKey)
	httpReq.Header.Set("X-RapidAPI-Host", jsearchHost)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, meta, transportError(a.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, meta, statusError(a.Name(), resp, fmt.Errorf("jsearch returned %d", resp.StatusCode))
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, meta, malformed(a.Name(), err)
	}

	items := envelope.Data
	if len(items) > limit {
		items = items[:limit]
	}
	meta.ResultsPerPage = limit
	meta.TotalResults = len(envelope.Data)

	raws := make([]model.RawJob, 0, len(items))
	for _, item := range items {
		var j jsearchJob
		if err := json.Unmarshal(item, &j); err != nil {
			return nil, meta, malformed(a.Name(), err)
		}

		location := j.JobCity
		if location == "" {
			location = j.JobCountry
		}

		remote := j.JobIsRemote
		raw := model.RawJob{
			SourceID:     j.JobID,
			Title:        j.JobTitle,
			Company:      j.EmployerName,
			Location:     location,
			Country:      j.JobCountry,
			Description:  j.JobDescription,
			Requirements: strings.Join(j.JobHighlights.Qualifications, "\n"),
			ApplyURL:     j.JobApplyLink,
			PostedAt:     j.JobPostedAt,
			SalaryMin:    j.JobMinSalary,
			SalaryMax:    j.JobMaxSalary,
			Currency:     j.JobSalaryCurrency,
			JobTypeText:  j.JobEmploymentType,
			IsRemote:     &remote,
			Payload:      item,
		}
		raws = append(raws, raw)
	}

	return raws, meta, nil
}

// jsearchEmploymentType maps a canonical job type to JSearch's filter value.
func jsearchEmploymentType(t model.JobType) string {
	switch t {
	case model.JobTypePartTime:
		return "PARTTIME"
	case model.JobTypeContract, model.JobTypeFreelance, model.JobTypeTemporary:
		return "CONTRACTOR"
	case model.JobTypeInternship:
		return "INTERN"
	default:
		return "FULLTIME"
	}
}
