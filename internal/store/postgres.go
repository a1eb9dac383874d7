package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobsift/jobsift/internal/model"
)

// PostgresStore persists canonical jobs in PostgreSQL via a pgx pool. It is
// the multi-process deployment counterpart to SQLiteStore and implements the
// same behavior.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const postgresSchema = `CREATE TABLE IF NOT EXISTS jobs (
	source_name        TEXT NOT NULL,
	source_id          TEXT NOT NULL,
	title              TEXT NOT NULL DEFAULT '',
	company            TEXT NOT NULL DEFAULT '',
	location           TEXT NOT NULL DEFAULT '',
	country            TEXT NOT NULL DEFAULT '',
	description        TEXT NOT NULL DEFAULT '',
	requirements       TEXT NOT NULL DEFAULT '',
	apply_url          TEXT NOT NULL DEFAULT '',
	posted_at          TIMESTAMPTZ,
	salary             TEXT NOT NULL DEFAULT '',
	salary_min         DOUBLE PRECISION,
	salary_max         DOUBLE PRECISION,
	salary_currency    TEXT NOT NULL DEFAULT '',
	job_type           TEXT NOT NULL DEFAULT 'full-time',
	experience_level   TEXT NOT NULL DEFAULT 'mid',
	skills             JSONB NOT NULL DEFAULT '[]',
	sector             TEXT NOT NULL DEFAULT 'general',
	is_remote          BOOLEAN NOT NULL DEFAULT FALSE,
	is_hybrid          BOOLEAN NOT NULL DEFAULT FALSE,
	is_urgent          BOOLEAN NOT NULL DEFAULT FALSE,
	is_featured        BOOLEAN NOT NULL DEFAULT FALSE,
	is_active          BOOLEAN NOT NULL DEFAULT TRUE,
	views              BIGINT NOT NULL DEFAULT 0,
	applications_count BIGINT NOT NULL DEFAULT 0,
	raw_payload        JSONB,
	ingested_at        TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (source_name, source_id)
)`

// NewPostgresStore connects to PostgreSQL with the given DSN and ensures the
// jobs table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

const postgresColumns = `source_name, source_id, title, company, location, country,
	description, requirements, apply_url, posted_at, salary, salary_min,
	salary_max, salary_currency, job_type, experience_level, skills, sector,
	is_remote, is_hybrid, is_urgent, is_featured, is_active, views,
	applications_count, raw_payload`

// FindBySourceIdentity returns the job for (sourceName, sourceID), or
// (nil, nil) when absent.
func (s *PostgresStore) FindBySourceIdentity(ctx context.Context, sourceName, sourceID string) (*model.CanonicalJob, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+postgresColumns+` FROM jobs WHERE source_name = $1 AND source_id = $2`,
		sourceName, sourceID,
	)
	return scanPgJob(row)
}

// FindByTitleCompany returns a job matching (title, company)
// case-insensitively within a source, or (nil, nil) when absent.
func (s *PostgresStore) FindByTitleCompany(ctx context.Context, sourceName, title, company string) (*model.CanonicalJob, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+postgresColumns+` FROM jobs
		 WHERE source_name = $1 AND LOWER(title) = LOWER($2) AND LOWER(company) = LOWER($3)
		 LIMIT 1`,
		sourceName, title, company,
	)
	return scanPgJob(row)
}

// Upsert inserts or replaces the job keyed on (source_name, source_id),
// leaving views and applications_count untouched on conflict.
func (s *PostgresStore) Upsert(ctx context.Context, job model.CanonicalJob) (model.CanonicalJob, error) {
	skills, err := json.Marshal(emptyIfNil(job.Skills))
	if err != nil {
		return model.CanonicalJob{}, fmt.Errorf("marshal skills: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO jobs (
			source_name, source_id, title, company, location, country,
			description, requirements, apply_url, posted_at, salary,
			salary_min, salary_max, salary_currency, job_type,
			experience_level, skills, sector, is_remote, is_hybrid,
			is_urgent, is_featured, is_active, raw_payload, ingested_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (source_name, source_id) DO UPDATE SET
			title = EXCLUDED.title,
			company = EXCLUDED.company,
			location = EXCLUDED.location,
			country = EXCLUDED.country,
			description = EXCLUDED.description,
			requirements = EXCLUDED.requirements,
			apply_url = EXCLUDED.apply_url,
			posted_at = EXCLUDED.posted_at,
			salary = EXCLUDED.salary,
			salary_min = EXCLUDED.salary_min,
			salary_max = EXCLUDED.salary_max,
			salary_currency = EXCLUDED.salary_currency,
			job_type = EXCLUDED.job_type,
			experience_level = EXCLUDED.experience_level,
			skills = EXCLUDED.skills,
			sector = EXCLUDED.sector,
			is_remote = EXCLUDED.is_remote,
			is_hybrid = EXCLUDED.is_hybrid,
			is_urgent = EXCLUDED.is_urgent,
			is_featured = EXCLUDED.is_featured,
			is_active = EXCLUDED.is_active,
			raw_payload = EXCLUDED.raw_payload,
			ingested_at = EXCLUDED.ingested_at`,
		job.SourceName, job.SourceID, job.Title, job.Company, job.Location,
		job.Country, job.Description, job.Requirements, job.ApplyURL,
		job.PostedAt.UTC(), job.Salary, job.SalaryMin, job.SalaryMax,
		job.SalaryCurrency, string(job.JobType), string(job.ExperienceLevel),
		skills, job.Sector, job.IsRemote, job.IsHybrid, job.IsUrgent,
		job.IsFeatured, job.IsActive, rawOrNull(job.RawPayload),
		time.Now().UTC(),
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
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]model.CanonicalJob, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postgresColumns+` FROM jobs ORDER BY posted_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.CanonicalJob
	for rows.Next() {
		job, err := scanPgJobRow(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Sweep deactivates active jobs whose posted_at is older than the given age.
func (s *PostgresStore) Sweep(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET is_active = FALSE WHERE is_active = TRUE AND posted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep jobs older than %v: %w", olderThan, err)
	}
	return tag.RowsAffected(), nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPgJob(row pgx.Row) (*model.CanonicalJob, error) {
	job, err := scanPgJobRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func scanPgJobRow(row pgx.Row) (model.CanonicalJob, error) {
	var (
		job      model.CanonicalJob
		postedAt *time.Time
		skills   []byte
		jobType  string
		expLevel string
		payload  []byte
	)

	err := row.Scan(
		&job.SourceName, &job.SourceID, &job.Title, &job.Company,
		&job.Location, &job.Country, &job.Description, &job.Requirements,
		&job.ApplyURL, &postedAt, &job.Salary, &job.SalaryMin, &job.SalaryMax,
		&job.SalaryCurrency, &jobType, &expLevel, &skills, &job.Sector,
		&job.IsRemote, &job.IsHybrid, &job.IsUrgent, &job.IsFeatured,
		&job.IsActive, &job.Views, &job.ApplicationsCount, &payload,
	)
	if err != nil {
		return model.CanonicalJob{}, err
	}

	if postedAt != nil {
		job.PostedAt = postedAt.UTC()
	}
	job.JobType = model.JobType(jobType)
	job.ExperienceLevel = model.ExperienceLevel(expLevel)
	if len(payload) > 0 {
		job.RawPayload = payload
	}
	if err := json.Unmarshal(skills, &job.Skills); err != nil {
		return model.CanonicalJob{}, fmt.Errorf("unmarshal skills: %w", err)
	}

	return job, nil
}

// rawOrNull maps an empty payload to SQL NULL so the JSONB column never sees
// an invalid empty document.
func rawOrNull(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
