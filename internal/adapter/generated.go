package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

const generatedMaxPageSize = 25

// Fixed taxonomy pools for synthetic postings. Kept small on purpose: the
// point is plausible, deterministic filler when no external source yields
// results, not realism.
var (
	generatedCompanies = []string{
		"TechNova Solutions", "BrightPath Labs", "Meridian Software",
		"Cloudline Systems", "NorthStar Digital", "Vertex Analytics",
		"BlueOak Technologies", "Pinnacle Works", "Silverbirch Consulting",
		"Quantum Leap Media",
	}

	generatedRoles = []struct {
		Title  string
		Skills string
	}{
		{"Backend Engineer", "Go, PostgreSQL, Docker, Kubernetes, REST"},
		{"Frontend Developer", "JavaScript, TypeScript, React, CSS, HTML"},
		{"Data Analyst", "SQL, Python, Pandas, Tableau, Excel"},
		{"DevOps Engineer", "AWS, Terraform, Docker, Kubernetes, Linux"},
		{"Full Stack Developer", "Node.js, React, MongoDB, GraphQL"},
		{"QA Engineer", "Selenium, Python, Jira, Agile"},
		{"Product Manager", "Agile, Scrum, Jira, SQL"},
		{"Machine Learning Engineer", "Python, PyTorch, TensorFlow, NLP"},
	}

	generatedCities = map[string][]string{
		"IN": {"Bengaluru", "Hyderabad", "Pune", "Mumbai", "Delhi"},
		"US": {"San Francisco", "New York", "Austin", "Seattle"},
		"GB": {"London", "Manchester", "Edinburgh", "Bristol"},
	}
)

// GeneratedAdapter deterministically manufactures plausible postings from the
// fixed taxonomy pools above. It exists as an explicit fallback source and is
// always flagged with sourceName "generated"; synthetic records are never
// mixed into a real provider's output.
type GeneratedAdapter struct {
	now func() time.Time
}

// NewGeneratedAdapter creates the synthetic fallback source.
func NewGeneratedAdapter() *GeneratedAdapter {
	return &GeneratedAdapter{now: time.Now}
}

func (a *GeneratedAdapter) Name() string { return "generated" }

// Fetch manufactures one page of records. Identical (query, country, page)
// inputs yield identical records, so re-ingestion stays idempotent.
func (a *GeneratedAdapter) Fetch(_ context.Context, req model.SearchRequest) ([]model.RawJob, model.ProviderMeta, error) {
	meta := model.ProviderMeta{Source: a.Name(), Country: req.Country, Page: req.Page}

	page := req.Page
	if page < 1 {
		page = 1
	}
	if page > 1 {
		// Single synthetic page keeps pagination loops terminating.
		return nil, meta, nil
	}
	limit := clampLimit(req.Limit, generatedMaxPageSize)

	country := strings.ToUpper(req.Country)
	cities, ok := generatedCities[country]
	if !ok {
		cities = generatedCities["IN"]
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d", strings.ToLower(req.Query), country, page)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	raws := make([]model.RawJob, 0, limit)
	for i := 0; i < limit; i++ {
		role := generatedRoles[rng.Intn(len(generatedRoles))]
		company := generatedCompanies[rng.Intn(len(generatedCompanies))]
		city := cities[rng.Intn(len(cities))]

		salaryMin := float64(30000 + rng.Intn(50)*1000)
		salaryMax := salaryMin + float64(10000+rng.Intn(30)*1000)

		title := role.Title
		if req.Query != "" && rng.Intn(3) == 0 {
			title = titleCase(req.Query)
		}

		description := fmt.Sprintf(
			"%s is hiring a %s in %s. You will work with %s in a collaborative engineering team. Competitive salary and benefits.",
			company, title, city, role.Skills,
		)

		sourceID := fmt.Sprintf("gen-%s-%d-%d", strings.ToLower(country), page, i)
		payload, _ := json.Marshal(map[string]any{
			"generator": "taxonomy-v1",
			"id":        sourceID,
			"query":     req.Query,
		})

		raws = append(raws, model.RawJob{
			SourceID:    sourceID,
			Title:       title,
			Company:     company,
			Location:    city,
			Country:     country,
			Description: description,
			PostedAt:    a.now().UTC().Format(time.RFC3339),
			SalaryMin:   &salaryMin,
			SalaryMax:   &salaryMax,
			JobTypeText: "full-time",
			Payload:     payload,
		})
	}

	meta.TotalResults = limit
	meta.ResultsPerPage = limit
	return raws, meta, nil
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
