package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jobsift/jobsift/internal/model"
)

const (
	reedBaseURL     = "https://www.reed.co.uk/api/1.0/search"
	reedMaxPageSize = 100
)

// reedJob mirrors a single item in the Reed search response.
type reedJob struct {
	JobID          int64    `json:"jobId"`
	EmployerName   string   `json:"employerName"`
	JobTitle       string   `json:"jobTitle"`
	LocationName   string   `json:"locationName"`
	MinimumSalary  *float64 `json:"minimumSalary"`
	MaximumSalary  *float64 `json:"maximumSalary"`
	Currency       string   `json:"currency"`
	Date           string   `json:"date"` // "02/01/2006"
	JobDescription string   `json:"jobDescription"`
	JobURL         string   `json:"jobUrl"`
}

// ReedAdapter fetches postings from the Reed.co.uk jobseeker API.
// Reed only lists UK postings, so every record carries country "GB".
type ReedAdapter struct {
	apiKey string
	client *http.Client
}

// NewReedAdapter creates an adapter authenticated with a Reed API key
// (sent as the Basic-auth username, per Reed's API contract).
func NewReedAdapter(apiKey string, client *http.Client) *ReedAdapter {
	return &ReedAdapter{apiKey: apiKey, client: client}
}

func (a *ReedAdapter) Name() string { return "reed" }

// Fetch retrieves one page of postings for req.
func (a *ReedAdapter) Fetch(ctx context.Context, req model.SearchRequest) ([]model.RawJob, model.ProviderMeta, error) {
	meta := model.ProviderMeta{Source: a.Name(), Country: "GB", Page: req.Page}
	if a.apiKey == "" {
		return nil, meta, authError(a.Name(), fmt.Errorf("REED_API_KEY not configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	page := req.Page
	if page < 1 {
		page = 1
	}
	take := clampLimit(req.Limit, reedMaxPageSize)

	params := url.Values{}
	params.Set("keywords", req.Query)
	params.Set("resultsToTake", strconv.Itoa(take))
	params.Set("resultsToSkip", strconv.Itoa((page-1)*take))
	if req.Location != "" {
		params.Set("locationName", req.Location)
	}
	if req.SalaryMin != nil {
		params.Set("minimumSalary", strconv.FormatFloat(*req.SalaryMin, 'f', 0, 64))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reedBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, meta, fmt.Errorf("reed request: %w", err)
	}
	httpReq.SetBasicAuth(a.apiKey, "")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, meta, transportError(a.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, meta, statusError(a.Name(), resp, fmt.Errorf("reed returned %d", resp.StatusCode))
	}

	var envelope struct {
		Results      []json.RawMessage `json:"results"`
		TotalResults int               `json:"totalResults"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, meta, malformed(a.Name(), err)
	}

	meta.TotalResults = envelope.TotalResults
	meta.ResultsPerPage = take

	raws := make([]model.RawJob, 0, len(envelope.Results))
	for _, item := range envelope.Results {
		var r reedJob
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, meta, malformed(a.Name(), err)
		}

		raws = append(raws, model.RawJob{
			SourceID:    strconv.FormatInt(r.JobID, 10),
			Title:       r.JobTitle,
			Company:     r.EmployerName,
			Location:    r.LocationName,
			Country:     "GB",
			Description: r.JobDescription,
			ApplyURL:    r.JobURL,
			PostedAt:    r.Date,
			SalaryMin:   r.MinimumSalary,
			SalaryMax:   r.MaximumSalary,
			Currency:    r.Currency,
			Payload:     item,
		})
	}

	return raws, meta, nil
}
