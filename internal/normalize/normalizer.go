package normalize

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// Normalizer converts adapter intermediate records into canonical jobs.
// It never fails: malformed or missing fields degrade to documented defaults
// and are logged at warning level.
type Normalizer struct {
	fallbackCountry string // ISO alpha-2 used when a country can't be mapped
	now             func() time.Time
	logger          *slog.Logger
}

// New creates a Normalizer. fallbackCountry must be a key of
// currencyByCountry; anything else falls back to "IN".
func New(fallbackCountry string, logger *slog.Logger) *Normalizer {
	fallbackCountry = strings.ToUpper(strings.TrimSpace(fallbackCountry))
	if _, ok := currencyByCountry[fallbackCountry]; !ok {
		fallbackCountry = "IN"
	}
	return &Normalizer{
		fallbackCountry: fallbackCountry,
		now:             time.Now,
		logger:          logger,
	}
}

// Normalize builds a CanonicalJob from a RawJob. Skills and sector are left
// empty here; the classifier fills them in.
func (n *Normalizer) Normalize(raw model.RawJob, meta model.ProviderMeta) model.CanonicalJob {
	job := model.CanonicalJob{
		SourceName:   meta.Source,
		SourceID:     strings.TrimSpace(raw.SourceID),
		Title:        strings.TrimSpace(raw.Title),
		Company:      strings.TrimSpace(raw.Company),
		Location:     strings.TrimSpace(raw.Location),
		Description:  strings.TrimSpace(raw.Description),
		Requirements: strings.TrimSpace(raw.Requirements),
		ApplyURL:     strings.TrimSpace(raw.ApplyURL),
		IsActive:     true,
		RawPayload:   raw.Payload,
	}

	job.Country = n.mapCountry(raw.Country, meta)
	job.PostedAt = n.parsePostedAt(raw.PostedAt, meta.Source)
	job.JobType = mapJobType(raw.JobTypeText)
	job.ExperienceLevel = mapExperience(raw.ExperienceText, job.Title)

	n.normalizeSalary(raw, &job)

	remote, hybrid := detectWorkMode(raw, job.Title, job.Description)
	job.IsRemote = remote
	job.IsHybrid = hybrid

	return job
}

// mapCountry resolves a provider country hint to ISO alpha-2, preferring the
// record's own hint over the country the request targeted. Unknown values
// fall back to the configured default with a warning, never an error.
func (n *Normalizer) mapCountry(hint string, meta model.ProviderMeta) string {
	for _, candidate := range []string{hint, meta.Country} {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate == "" {
			continue
		}
		if iso, ok := countryAlpha2[candidate]; ok {
			return iso
		}
	}
	if strings.TrimSpace(hint) != "" {
		n.logger.Warn("unmapped country, using fallback",
			"source", meta.Source,
			"country", hint,
			"fallback", n.fallbackCountry,
		)
	}
	return n.fallbackCountry
}

// parsePostedAt tries the known provider layouts; an absent or unparseable
// timestamp defaults to ingestion time.
func (n *Normalizer) parsePostedAt(s, source string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return n.now().UTC()
	}
	for _, layout := range postedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	n.logger.Warn("unparseable posted_at, using ingestion time", "source", source, "value", s)
	return n.now().UTC()
}

// normalizeSalary fills the salary fields: structured min/max win, then the
// free-text string is mined for up to two numeric tokens. The currency
// defaults to the job's country currency. Min and max are swapped if a
// provider sends them inverted, preserving min <= max.
func (n *Normalizer) normalizeSalary(raw model.RawJob, job *model.CanonicalJob) {
	job.Salary = strings.TrimSpace(raw.SalaryText)
	job.SalaryMin = raw.SalaryMin
	job.SalaryMax = raw.SalaryMax

	if job.SalaryMin == nil && job.SalaryMax == nil && job.Salary != "" {
		job.SalaryMin, job.SalaryMax = parseSalaryText(job.Salary)
	}

	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		job.SalaryMin, job.SalaryMax = job.SalaryMax, job.SalaryMin
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if currency == "" {
		currency = currencyByCountry[job.Country]
	}
	if job.SalaryMin != nil || job.SalaryMax != nil || job.Salary != "" {
		job.SalaryCurrency = currency
	}

	if job.Salary == "" && job.SalaryMin != nil && job.SalaryMax != nil {
		job.Salary = fmt.Sprintf("%s %.0f - %.0f", currency, *job.SalaryMin, *job.SalaryMax)
	}
}

// mapJobType resolves a provider job-type string against the fixed
// vocabulary. Unmatched values default to full-time.
func mapJobType(s string) model.JobType {
	if t, ok := jobTypeVocab[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return model.JobTypeFullTime
}

// mapExperience resolves a provider seniority string, falling back to
// scanning the title for a vocabulary token. Unmatched values default to mid.
func mapExperience(s, title string) model.ExperienceLevel {
	if lvl, ok := experienceVocab[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl
	}
	titleLower := strings.ToLower(title)
	for _, scan := range experienceTitleScan {
		if strings.Contains(titleLower, scan.token) {
			return scan.level
		}
	}
	return model.ExperienceMid
}

// detectWorkMode derives remote/hybrid flags from the provider's explicit
// flag when present, otherwise from title+description text.
func detectWorkMode(raw model.RawJob, title, description string) (remote, hybrid bool) {
	text := strings.ToLower(title + " " + description)
	hybrid = strings.Contains(text, "hybrid")

	if raw.IsRemote != nil {
		return *raw.IsRemote, hybrid
	}
	remote = strings.Contains(text, "remote") || strings.Contains(text, "work from home")
	return remote, hybrid
}
