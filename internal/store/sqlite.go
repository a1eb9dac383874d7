package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jobsift/jobsift/internal/model"
)

// SQLiteStore persists canonical jobs in a SQLite database. The primary key
// on (source_name, source_id) is the uniqueness backstop for concurrent
// ingestion runs: the upsert resolves the lookup-then-decide race at the
// storage boundary.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS jobs (
	source_name        TEXT NOT NULL,
	source_id          TEXT NOT NULL,
	title              TEXT NOT NULL DEFAULT '',
	company            TEXT NOT NULL DEFAULT '',
	location           TEXT NOT NULL DEFAULT '',
	country            TEXT NOT NULL DEFAULT '',
	description        TEXT NOT NULL DEFAULT '',
	requirements       TEXT NOT NULL DEFAULT '',
	apply_url          TEXT NOT NULL DEFAULT '',
	posted_at          DATETIME,
	salary             TEXT NOT NULL DEFAULT '',
	salary_min         REAL,
	salary_max         REAL,
	salary_currency    TEXT NOT NULL DEFAULT '',
	job_type           TEXT NOT NULL DEFAULT 'full-time',
	experience_level   TEXT NOT NULL DEFAULT 'mid',
	skills             TEXT NOT NULL DEFAULT '[]',
	sector             TEXT NOT NULL DEFAULT 'general',
	is_remote          INTEGER NOT NULL DEFAULT 0,
	is_hybrid          INTEGER NOT NULL DEFAULT 0,
	is_urgent          INTEGER NOT NULL DEFAULT 0,
	is_featured        INTEGER NOT NULL DEFAULT 0,
	is_active          INTEGER NOT NULL DEFAULT 1,
	views              INTEGER NOT NULL DEFAULT 0,
	applications_count INTEGER NOT NULL DEFAULT 0,
	raw_payload        BLOB,
	ingested_at        DATETIME NOT NULL,
	PRIMARY KEY (source_name, source_id)
)`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the jobs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

const sqliteColumns = `source_name, source_id, title, company, location, country,
	description, requirements, apply_url, posted_at, salary, salary_min,
	salary_max, salary_currency, job_type, experience_level, skills, sector,
	is_remote, is_hybrid, is_urgent, is_featured, is_active, views,
	applications_count, raw_payload`

// FindBySourceIdentity returns the job for (sourceName, sourceID), or
// (nil, nil) when absent.
func (s *SQLiteStore) FindBySourceIdentity(ctx context.Context, sourceName, sourceID string) (*model.CanonicalJob, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM jobs WHERE source_name = ? AND source_id = ?`,
		sourceName, sourceID,
	)
	return scanJob(row)
}

// FindByTitleCompany returns a job matching (title, company)
// case-insensitively within a source, or (nil, nil) when absent.
func (s *SQLiteStore) FindByTitleCompany(ctx context.Context, sourceName, title, company string) (*model.CanonicalJob, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM jobs
		 WHERE source_name = ? AND LOWER(title) = LOWER(?) AND LOWER(company) = LOWER(?)
		 LIMIT 1`,
		sourceName, title, company,
	)
	return scanJob(row)
}

// Upsert inserts or replaces the job keyed on (source_name, source_id).
// Views and application counters are owned by downstream consumers and are
// never overwritten by re-ingestion.
func (s *SQLiteStore) Upsert(ctx context.Context, job model.CanonicalJob) (model.CanonicalJob, error) {
	skills, err := json.Marshal(emptyIfNil(job.Skills))
	if err != nil {
		return model.CanonicalJob{}, fmt.Errorf("marshal skills: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (
			source_name, source_id, title, company, location, country,
			description, requirements, apply_url, posted_at, salary,
			salary_min, salary_max, salary_currency, job_type,
			experience_level, skills, sector, is_remote, is_hybrid,
			is_urgent, is_featured, is_active, views, applications_count,
			raw_payload, ingested_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)
		ON CONFLICT(source_name, source_id) DO UPDATE SET
			title = excluded.title,
			company = excluded.company,
			location = excluded.location,
			country = excluded.country,
			description = excluded.description,
			requirements = excluded.requirements,
			apply_url = excluded.apply_url,
			posted_at = excluded.posted_at,
			salary = excluded.salary,
			salary_min = excluded.salary_min,
			salary_max = excluded.salary_max,
			salary_currency = excluded.salary_currency,
			job_type = excluded.job_type,
			experience_level = excluded.experience_level,
			skills = excluded.skills,
			sector = excluded.sector,
			is_remote = excluded.is_remote,
			is_hybrid = excluded.is_hybrid,
			is_urgent = excluded.is_urgent,
			is_featured = excluded.is_featured,
			is_active = excluded.is_active,
			raw_payload = excluded.raw_payload,
			ingested_at = excluded.ingested_at`,
		job.SourceName, job.SourceID, job.Title, job.Company, job.Location,
		job.Country, job.Description, job.Requirements, job.ApplyURL,
		job.PostedAt.UTC(), job.Salary, nullable(job.SalaryMin),
		nullable(job.SalaryMax), job.SalaryCurrency, string(job.JobType),
		string(job.ExperienceLevel), string(skills), job.Sector,
		job.IsRemote, job.IsHybrid, job.IsUrgent, job.IsFeatured,
		job.IsActive, []byte(job.RawPayload), time.Now().UTC(),
	)
	if err != nil {
		return model.CanonicalJob{}, fmt.Errorf("upsert job %s/%s: %w", job.SourceName, job.SourceID, err)
	}

	stored, err := s.FindBySourceIdentity(ctx, job.SourceName, job.SourceID)
	if err != nil {
		return model.CanonicalJob{}, err
	}
	if stored == nil {
		return model.CanonicalJob{}, fmt.Errorf("upsert job %s/%s: row missing after write", job.SourceName, job.SourceID)
	}
	return *stored, nil
}

// ListRecent returns up to limit jobs ordered by newest posted_at first.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]model.CanonicalJob, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM jobs ORDER BY posted_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.CanonicalJob
	for rows.Next() {
		job, err := scanJobRow(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Sweep deactivates active jobs whose posted_at is older than the given age
// and returns the number of rows toggled.
func (s *SQLiteStore) Sweep(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET is_active = 0 WHERE is_active = 1 AND posted_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep jobs older than %v: %w", olderThan, err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row *sql.Row) (*model.CanonicalJob, error) {
	job, err := scanJobRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func scanJobRow(row rowScanner) (model.CanonicalJob, error) {
	var (
		job        model.CanonicalJob
		postedAt   sql.NullTime
		salaryMin  sql.NullFloat64
		salaryMax  sql.NullFloat64
		skillsJSON string
		jobType    string
		expLevel   string
		payload    []byte
	)

	err := row.Scan(
		&job.SourceName, &job.SourceID, &job.Title, &job.Company,
		&job.Location, &job.Country, &job.Description, &job.Requirements,
		&job.ApplyURL, &postedAt, &job.Salary, &salaryMin, &salaryMax,
		&job.SalaryCurrency, &jobType, &expLevel, &skillsJSON, &job.Sector,
		&job.IsRemote, &job.IsHybrid, &job.IsUrgent, &job.IsFeatured,
		&job.IsActive, &job.Views, &job.ApplicationsCount, &payload,
	)
	if err != nil {
		return model.CanonicalJob{}, err
	}

	if postedAt.Valid {
		job.PostedAt = postedAt.Time.UTC()
	}
	if salaryMin.Valid {
		job.SalaryMin = &salaryMin.Float64
	}
	if salaryMax.Valid {
		job.SalaryMax = &salaryMax.Float64
	}
	job.JobType = model.JobType(jobType)
	job.ExperienceLevel = model.ExperienceLevel(expLevel)
	if len(payload) > 0 {
		job.RawPayload = payload
	}
	if err := json.Unmarshal([]byte(skillsJSON), &job.Skills); err != nil {
		return model.CanonicalJob{}, fmt.Errorf("unmarshal skills: %w", err)
	}

	return job, nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
