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
	adzunaBaseURL     = "https://api.adzuna.com/v1/api/jobs"
	adzunaMaxPageSize = 50
)

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Company      adzunaCompany  `json:"company"`
	Location     adzunaLocation `json:"location"`
	Category     adzunaCategory `json:"category"`
	SalaryMin    float64        `json:"salary_min"`
	SalaryMax    float64        `json:"salary_max"`
	RedirectURL  string         `json:"redirect_url"`
	Created      string         `json:"created"`
	ContractTime string         `json:"contract_time"` // "full_time" / "part_time"
	ContractType string         `json:"contract_type"` // "permanent" / "contract"
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

type adzunaCategory struct {
	Label string `json:"label"`
}

// AdzunaAdapter fetches postings from the Adzuna search API.
type AdzunaAdapter struct {
	appID  string
	appKey string
	client *http.Client
}

// NewAdzunaAdapter creates an adapter authenticated with an Adzuna
// app_id/app_key pair.
func NewAdzunaAdapter(appID, appKey string, client *http.Client) *AdzunaAdapter {
	return &AdzunaAdapter{appID: appID, appKey: appKey, client: client}
}

func (a *AdzunaAdapter) Name() string { return "adzuna" }

// Fetch retrieves one page of postings for req. Fails fast with an auth error
// when credentials are missing, without touching the network.
func (a *AdzunaAdapter) Fetch(ctx context.Context, req model.SearchRequest) ([]model.RawJob, model.ProviderMeta, error) {
	meta := model.ProviderMeta{Source: a.Name(), Country: req.Country, Page: req.Page}
	if a.appID == "" || a.appKey == "" {
		return nil, meta, authError(a.Name(), fmt.Errorf("ADZUNA_APP_ID / ADZUNA_APP_KEY not configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := clampLimit(req.Limit, adzunaMaxPageSize)

	endpoint := fmt.Sprintf("%s/%s/search/%d", adzunaBaseURL, strings.ToLower(req.Country), page)
	params := url.Values{}
	params.Set("app_id", a.appID)
	params.Set("app_key", a.appKey)
	params.Set("results_per_page", strconv.Itoa(perPage))
	params.Set("what", req.Query)
	if req.Location != "" {
		params.Set("where", req.Location)
	}
	if req.SalaryMin != nil {
		params.Set("salary_min", strconv.FormatFloat(*req.SalaryMin, 'f', 0, 64))
	}
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, meta, fmt.Errorf("adzuna request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, meta, transportError(a.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, meta, statusError(a.Name(), resp, fmt.Errorf("adzuna returned %d", resp.StatusCode))
	}

	// Decode twice: once for fields, once to retain each item's raw payload.
	var envelope struct {
		Results []json.RawMessage `json:"results"`
		Count   int               `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, meta, malformed(a.Name(), err)
	}

	meta.TotalResults = envelope.Count
	meta.ResultsPerPage = perPage

	raws := make([]model.RawJob, 0, len(envelope.Results))
	for _, item := range envelope.Results {
		var r adzunaResult
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, meta, malformed(a.Name(), err)
		}

		raw := model.RawJob{
			SourceID:    r.ID,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			Country:     req.Country,
			Description: r.Description,
			ApplyURL:    r.RedirectURL,
			PostedAt:    r.Created,
			JobTypeText: r.ContractTime,
			Payload:     item,
		}
		if r.ContractType == "contract" {
			raw.JobTypeText = r.ContractType
		}
		if r.SalaryMin > 0 {
			v := r.SalaryMin
			raw.SalaryMin = &v
		}
		if r.SalaryMax > 0 {
			v := r.SalaryMax
			raw.SalaryMax = &v
		}
		raws = append(raws, raw)
	}

	return raws, meta, nil
}
