package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobsift/jobsift/internal/model"
)

func TestJSearchAdapter_Fetch_Success(t *testing.T) {
	payload := `{
		"status": "OK",
		"data": [
			{
				"job_id": "abc123",
				"job_title": "Senior Golang Developer",
				"employer_name": "Initech",
				"job_city": "Pune",
				"job_country": "India",
				"job_description": "Work on golang microservices with kubernetes.",
				"job_apply_link": "https://example.com/apply/abc123",
				"job_posted_at_datetime_utc": "2026-08-19T12:00:00Z",
				"job_employment_type": "FULLTIME",
				"job_is_remote": true,
				"job_min_salary": 2000000,
				"job_max_salary": 3000000,
				"job_salary_currency": "INR",
				"job_highlights": {
					"Qualifications": ["5+ years of Go", "Experience with docker"]
				}
			}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-RapidAPI-Key") != "test-key" {
			t.Errorf("expected X-RapidAPI-Key header, got %q", r.Header.Get("X-RapidAPI-Key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewJSearchAdapter("test-key", rewriteClient(srv))

	raws, _, err := a.Fetch(context.Background(), model.SearchRequest{Query: "golang", Country: "IN", Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("expected 1 record, got %d", len(raws))
	}

	r := raws[0]
	if r.SourceID != "abc123" {
		t.Errorf("expected SourceID abc123, got %s", r.SourceID)
	}
	if r.Country != "India" {
		t.Errorf("expected country hint India, got %s", r.Country)
	}
	if r.IsRemote == nil || !*r.IsRemote {
		t.Error("expected explicit remote flag true")
	}
	if r.Requirements != "5+ years of Go\nExperience with docker" {
		t.Errorf("expected joined qualifications, got %q", r.Requirements)
	}
	if r.Currency != "INR" {
		t.Errorf("expected currency INR, got %s", r.Currency)
	}
}

func TestJSearchAdapter_Fetch_TruncatesToLimit(t *testing.T) {
	payload := `{"data": [
		{"job_id": "1", "job_title": "A", "employer_name": "X"},
		{"job_id": "2", "job_title": "B", "employer_name": "Y"},
		{"job_id": "3", "job_title": "C", "employer_name": "Z"}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewJSearchAdapter("test-key", rewriteClient(srv))

	raws, _, err := a.Fetch(context.Background(), model.SearchRequest{Query: "any", Country: "IN", Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected truncation to 2 records, got %d", len(raws))
	}
}

func TestJSearchAdapter_Fetch_MissingKey(t *testing.T) {
	a := NewJSearchAdapter("", http.DefaultClient)

	_, _, err := a.Fetch(context.Background(), model.SearchRequest{Query: "golang", Country: "IN"})
	var pe *model.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *model.ProviderError, got %v", err)
	}
	if pe.Kind != model.KindAuth {
		t.Errorf("expected kind %s, got %s", model.KindAuth, pe.Kind)
	}
}

func TestJSearchEmploymentType(t *testing.T) {
	cases := []struct {
		in   model.JobType
		want string
	}{
		{model.JobTypeFullTime, "FULLTIME"},
		{model.JobTypePartTime, "PARTTIME"},
		{model.JobTypeContract, "CONTRACTOR"},
		{model.JobTypeFreelance, "CONTRACTOR"},
		{model.JobTypeInternship, "INTERN"},
	}
	for _, c := range cases {
		if got := jsearchEmploymentType(c.in); got != c.want {
			t.Errorf("jsearchEmploymentType(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}
