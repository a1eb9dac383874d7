// Package classify extracts skills and a sector label from free-text job
// fields. Everything here is a pure function over curated dictionaries: no
// I/O, no shared state, safe to call concurrently.
package classify

import (
	"sort"
	"strings"
)

// Result is the enrichment produced for one job.
type Result struct {
	Skills []string
	Sector string
}

// DefaultSector is used when no sector keyword matches.
const DefaultSector = "general"

// skillDictionary is the curated list of known skill tokens. Matching is a
// case-insensitive substring scan of the combined text.
// Deliberately no bare "go" or "rest": as substrings they match too much
// unrelated English ("good", "interest").
var skillDictionary = []string{
	"golang", "python", "java", "javascript", "typescript", "c++", "c#",
	"ruby", "rails", "php", "laravel", "swift", "kotlin", "rust", "scala",
	"react", "angular", "vue", "node.js", "next.js", "django", "flask",
	"spring", "html", "css", "graphql", "rest api", "grpc",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "linux",
	"jenkins", "ci/cd", "git",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"kafka", "rabbitmq", "spark", "hadoop",
	"machine learning", "deep learning", "nlp", "pytorch", "tensorflow",
	"pandas", "numpy", "tableau", "power bi", "excel",
	"salesforce", "sap", "figma", "photoshop", "seo",
	"agile", "scrum", "jira",
}

// sectorRule pairs a sector label with its trigger keywords.
type sectorRule struct {
	sector   string
	keywords []string
}

// sectorTable is scanned in order; the first sector with any keyword match
// wins. Table order is the deliberate tie-break between sectors, e.g. a
// "fintech software engineer" classifies as technology, not finance.
var sectorTable = []sectorRule{
	{"technology", []string{"software", "developer", "engineer", "programmer", "devops", "data scientist", "cloud", "saas", "cybersecurity", "machine learning"}},
	{"finance", []string{"banking", "finance", "financial", "accountant", "accounting", "fintech", "investment", "trading", "audit"}},
	{"healthcare", []string{"health", "medical", "nurse", "doctor", "pharma", "clinical", "hospital", "dental"}},
	{"education", []string{"teacher", "education", "tutor", "professor", "school", "university", "curriculum"}},
	{"marketing", []string{"marketing", "seo", "advertising", "brand", "social media", "content writer", "copywriter"}},
	{"sales", []string{"sales", "account executive", "business development", "account manager"}},
	{"design", []string{"designer", "ux", "ui", "graphic", "creative director", "illustrator"}},
	{"human-resources", []string{"recruiter", "recruitment", "human resources", "talent acquisition", "hr "}},
	{"legal", []string{"lawyer", "attorney", "legal", "paralegal", "compliance"}},
	{"hospitality", []string{"hotel", "restaurant", "chef", "hospitality", "tourism", "barista"}},
	{"retail", []string{"retail", "store manager", "merchandis", "cashier"}},
	{"construction", []string{"construction", "civil engineer", "architect", "electrician", "plumber", "surveyor"}},
	{"manufacturing", []string{"manufacturing", "factory", "production line", "assembly", "quality control"}},
	{"logistics", []string{"logistics", "supply chain", "warehouse", "courier", "delivery driver"}},
}

// Classify scans title, description and company for skills and a sector.
// Skills are ordered by first occurrence in the combined text and
// deduplicated case-insensitively; sector falls back to DefaultSector.
func Classify(title, description, company string) Result {
	text := strings.ToLower(title + " " + description + " " + company)

	return Result{
		Skills: extractSkills(text),
		Sector: classifySector(text),
	}
}

// extractSkills returns dictionary tokens present in text, ordered by the
// position of their first occurrence.
func extractSkills(text string) []string {
	type hit struct {
		skill string
		pos   int
	}

	var hits []hit
	seen := make(map[string]bool)
	for _, skill := range skillDictionary {
		if seen[skill] {
			continue
		}
		pos := strings.Index(text, skill)
		if pos < 0 {
			continue
		}
		seen[skill] = true
		hits = append(hits, hit{skill: skill, pos: pos})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	skills := make([]string, 0, len(hits))
	for _, h := range hits {
		skills = append(skills, h.skill)
	}
	return skills
}

// classifySector returns the first sector in table order whose keyword list
// matches the text, or DefaultSector.
func classifySector(text string) string {
	for _, rule := range sectorTable {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.sector
			}
		}
	}
	return DefaultSector
}
