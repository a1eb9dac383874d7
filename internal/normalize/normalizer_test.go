package normalize

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n := New("IN", testLogger())
	n.now = func() time.Time {
		return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	}
	return n
}

func TestNormalize_ProviderRecordRoundTrip(t *testing.T) {
	n := newTestNormalizer(t)

	raw := model.RawJob{
		SourceID: "123",
		Title:    "Backend Engineer",
		Company:  "Acme",
		Country:  "IN",
	}
	meta := model.ProviderMeta{Source: "jsearch", Country: "IN"}

	job := n.Normalize(raw, meta)

	if job.SourceName != "jsearch" {
		t.Errorf("expected sourceName jsearch, got %s", job.SourceName)
	}
	if job.SourceID != "123" {
		t.Errorf("expected sourceId 123, got %s", job.SourceID)
	}
	if job.Title != "Backend Engineer" {
		t.Errorf("expected title Backend Engineer, got %s", job.Title)
	}
	if job.Company != "Acme" {
		t.Errorf("expected company Acme, got %s", job.Company)
	}
	if job.Country != "IN" {
		t.Errorf("expected country IN, got %s", job.Country)
	}
	if !job.IsActive {
		t.Error("expected new record to be active")
	}
	if job.JobType != model.JobTypeFullTime {
		t.Errorf("expected default job type full-time, got %s", job.JobType)
	}
	if job.ExperienceLevel != model.ExperienceMid {
		t.Errorf("expected default experience mid, got %s", job.ExperienceLevel)
	}
}

func TestNormalize_CountryMapping(t *testing.T) {
	n := newTestNormalizer(t)

	cases := []struct {
		name string
		hint string
		meta string
		want string
	}{
		{"record name over meta", "United Kingdom", "IN", "GB"},
		{"lowercase code", "us", "", "US"},
		{"meta fallback", "", "gb", "GB"},
		{"unknown falls back to default", "Atlantis", "", "IN"},
		{"both empty falls back", "", "", "IN"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			job := n.Normalize(
				model.RawJob{Title: "X", Company: "Y", Country: c.hint},
				model.ProviderMeta{Source: "test", Country: c.meta},
			)
			if job.Country != c.want {
				t.Errorf("country = %s, want %s", job.Country, c.want)
			}
		})
	}
}

func TestNormalize_PostedAtLayouts(t *testing.T) {
	n := newTestNormalizer(t)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-08-19T12:00:00Z", time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC)},
		{"2026-08-19", time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)},
		{"19/08/2026", time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)},
		// Unparseable and empty default to ingestion time.
		{"next Tuesday", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)},
		{"", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		job := n.Normalize(
			model.RawJob{Title: "X", Company: "Y", PostedAt: c.in},
			model.ProviderMeta{Source: "test", Country: "IN"},
		)
		if !job.PostedAt.Equal(c.want) {
			t.Errorf("PostedAt(%q) = %v, want %v", c.in, job.PostedAt, c.want)
		}
	}
}

func TestNormalize_SalaryFromText(t *testing.T) {
	n := newTestNormalizer(t)

	job := n.Normalize(
		model.RawJob{Title: "X", Company: "Y", SalaryText: "₹45,000 - ₹60,000 per month"},
		model.ProviderMeta{Source: "test", Country: "IN"},
	)

	if job.SalaryMin == nil || *job.SalaryMin != 45000 {
		t.Errorf("expected SalaryMin 45000, got %v", job.SalaryMin)
	}
	if job.SalaryMax == nil || *job.SalaryMax != 60000 {
		t.Errorf("expected SalaryMax 60000, got %v", job.SalaryMax)
	}
	if job.SalaryCurrency != "INR" {
		t.Errorf("expected currency INR from country, got %s", job.SalaryCurrency)
	}
	if job.Salary != "₹45,000 - ₹60,000 per month" {
		t.Errorf("expected display string preserved, got %q", job.Salary)
	}
}

func TestNormalize_StructuredSalaryWins(t *testing.T) {
	n := newTestNormalizer(t)

	salaryMin, salaryMax := 100000.0, 150000.0
	job := n.Normalize(
		model.RawJob{
			Title: "X", Company: "Y",
			SalaryText: "competitive 999",
			SalaryMin:  &salaryMin,
			SalaryMax:  &salaryMax,
			Currency:   "usd",
		},
		model.ProviderMeta{Source: "test", Country: "US"},
	)

	if *job.SalaryMin != 100000 || *job.SalaryMax != 150000 {
		t.Errorf("expected structured salary to win, got %v-%v", *job.SalaryMin, *job.SalaryMax)
	}
	if job.SalaryCurrency != "USD" {
		t.Errorf("expected provider currency uppercased, got %s", job.SalaryCurrency)
	}
}

func TestNormalize_InvertedSalarySwapped(t *testing.T) {
	n := newTestNormalizer(t)

	salaryMin, salaryMax := 90000.0, 50000.0
	job := n.Normalize(
		model.RawJob{Title: "X", Company: "Y", SalaryMin: &salaryMin, SalaryMax: &salaryMax},
		model.ProviderMeta{Source: "test", Country: "IN"},
	)

	if *job.SalaryMin != 50000 || *job.SalaryMax != 90000 {
		t.Errorf("expected inverted range swapped, got %v-%v", *job.SalaryMin, *job.SalaryMax)
	}
}

func TestNormalize_SalaryDisplaySynthesized(t *testing.T) {
	n := newTestNormalizer(t)

	salaryMin, salaryMax := 50000.0, 70000.0
	job := n.Normalize(
		model.RawJob{Title: "X", Company: "Y", SalaryMin: &salaryMin, SalaryMax: &salaryMax},
		model.ProviderMeta{Source: "test", Country: "IN"},
	)

	if job.Salary != "INR 50000 - 70000" {
		t.Errorf("expected synthesized display string, got %q", job.Salary)
	}
}

func TestNormalize_NoSalaryStaysEmpty(t *testing.T) {
	n := newTestNormalizer(t)

	job := n.Normalize(
		model.RawJob{Title: "X", Company: "Y"},
		model.ProviderMeta{Source: "test", Country: "IN"},
	)

	if job.SalaryMin != nil || job.SalaryMax != nil || job.Salary != "" || job.SalaryCurrency != "" {
		t.Errorf("expected empty salary fields, got %q %v %v %q",
			job.Salary, job.SalaryMin, job.SalaryMax, job.SalaryCurrency)
	}
}

func TestMapJobType(t *testing.T) {
	cases := []struct {
		in   string
		want model.JobType
	}{
		{"FULLTIME", model.JobTypeFullTime},
		{"full_time", model.JobTypeFullTime},
		{"permanent", model.JobTypeFullTime},
		{"Part-Time", model.JobTypePartTime},
		{"contractor", model.JobTypeContract},
		{"INTERN", model.JobTypeInternship},
		{"temp", model.JobTypeTemporary},
		{"freelancer", model.JobTypeFreelance},
		{"gig work", model.JobTypeFullTime}, // unmatched defaults
		{"", model.JobTypeFullTime},
	}
	for _, c := range cases {
		if got := mapJobType(c.in); got != c.want {
			t.Errorf("mapJobType(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestMapExperience(t *testing.T) {
	cases := []struct {
		explicit string
		title    string
		want     model.ExperienceLevel
	}{
		{"senior", "", model.ExperienceSenior},
		{"Junior", "", model.ExperienceEntry},
		{"director", "", model.ExperienceExecutive},
		// Title scan fallback.
		{"", "Senior Backend Engineer", model.ExperienceSenior},
		{"", "Engineering Director, Senior Platforms", model.ExperienceExecutive},
		{"", "Graduate Trainee", model.ExperienceEntry},
		{"", "Backend Engineer", model.ExperienceMid},
		{"", "", model.ExperienceMid},
	}
	for _, c := range cases {
		if got := mapExperience(c.explicit, c.title); got != c.want {
			t.Errorf("mapExperience(%q, %q) = %s, want %s", c.explicit, c.title, got, c.want)
		}
	}
}

func TestNormalize_WorkModeDetection(t *testing.T) {
	n := newTestNormalizer(t)
	yes, no := true, false

	cases := []struct {
		name       string
		raw        model.RawJob
		wantRemote bool
		wantHybrid bool
	}{
		{
			"explicit flag wins",
			model.RawJob{Title: "On-site role", Company: "Y", IsRemote: &yes},
			true, false,
		},
		{
			"explicit false beats remote text",
			model.RawJob{Title: "Remote-friendly role", Company: "Y", IsRemote: &no},
			false, false,
		},
		{
			"text scan",
			model.RawJob{Title: "Engineer", Company: "Y", Description: "This is a fully remote position."},
			true, false,
		},
		{
			"hybrid",
			model.RawJob{Title: "Engineer", Company: "Y", Description: "Hybrid, 2 days in office."},
			false, true,
		},
		{
			"work from home",
			model.RawJob{Title: "Engineer", Company: "Y", Description: "Work from home allowed."},
			true, false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			job := n.Normalize(c.raw, model.ProviderMeta{Source: "test", Country: "IN"})
			if job.IsRemote != c.wantRemote || job.IsHybrid != c.wantHybrid {
				t.Errorf("remote/hybrid = %v/%v, want %v/%v",
					job.IsRemote, job.IsHybrid, c.wantRemote, c.wantHybrid)
			}
		})
	}
}

func TestNew_InvalidFallbackCountry(t *testing.T) {
	n := New("XX", testLogger())
	if n.fallbackCountry != "IN" {
		t.Errorf("expected invalid fallback to degrade to IN, got %s", n.fallbackCountry)
	}
}

func TestParseSalaryText(t *testing.T) {
	cases := []struct {
		in      string
		wantMin *float64
		wantMax *float64
	}{
		{"45,000 - 60,000", f(45000), f(60000)},
		{"up to 80000", f(80000), nil},
		{"₹1,200,000.50 per year", f(1200000.50), nil},
		{"competitive", nil, nil},
		{"", nil, nil},
	}
	for _, c := range cases {
		gotMin, gotMax := parseSalaryText(c.in)
		if !floatPtrEq(gotMin, c.wantMin) || !floatPtrEq(gotMax, c.wantMax) {
			t.Errorf("parseSalaryText(%q) = %v, %v; want %v, %v",
				c.in, deref(gotMin), deref(gotMax), deref(c.wantMin), deref(c.wantMax))
		}
	}
}

// --- helpers ---

func f(v float64) *float64 { return &v }

func floatPtrEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
