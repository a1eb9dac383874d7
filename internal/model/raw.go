package model

import "encoding/json"

// RawJob is the common intermediate record every adapter emits. Fields carry
// provider values as-is; the normalizer owns trimming, mapping and defaults.
// Optional numerics are nil when the provider did not supply them.
type RawJob struct {
	SourceID string

	Title    string
	Company  string
	Location string
	Country  string // provider-native country hint (code or name)

	Description  string
	Requirements string
	ApplyURL     string

	PostedAt string // raw timestamp text, parsed by the normalizer

	SalaryText string
	SalaryMin  *float64
	SalaryMax  *float64
	Currency   string

	JobTypeText    string
	ExperienceText string
	IsRemote       *bool

	// Original provider response item, retained as an audit blob.
	Payload json.RawMessage
}

// ProviderMeta describes the provider response a batch of RawJobs came from.
type ProviderMeta struct {
	Source         string `json:"source"`
	Country        string `json:"country"` // country the request targeted
	Page           int    `json:"page"`
	ResultsPerPage int    `json:"results_per_page"`
	TotalResults   int    `json:"total_results"`
}
