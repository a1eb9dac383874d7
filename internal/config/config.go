package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the JobSift pipeline.
type Config struct {
	Store     StoreConfig
	Ingestion IngestionConfig
	Providers ProvidersConfig
	RateLimit RateLimitConfig
	Schedule  ScheduleConfig
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver string // "sqlite", "postgres" or "memory"
	Path   string // sqlite file path
	DSN    string // postgres connection string, expanded from env by Load
}

// IngestionConfig shapes a single ingestion run.
type IngestionConfig struct {
	Sources          []string
	Query            string
	Countries        []string
	Location         string
	MaxJobsPerSource int
	PageSize         int
	Concurrency      int
	Overwrite        bool
	Deduplicate      bool
	FallbackCountry  string
	Timeout          time.Duration

	MaxRetries     int
	RetryBaseDelay time.Duration
}

// ProvidersConfig carries per-provider credentials and settings. Keys are
// expanded from env vars by Load, so config files can say "${ADZUNA_APP_KEY}".
type ProvidersConfig struct {
	Adzuna   AdzunaConfig
	JSearch  JSearchConfig
	Reed     ReedConfig
	Employer EmployerConfig
}

type AdzunaConfig struct {
	AppID  string `yaml:"app_id"`
	AppKey string `yaml:"app_key"`
}

type JSearchConfig struct {
	APIKey string `yaml:"api_key"`
}

type ReedConfig struct {
	APIKey string `yaml:"api_key"`
}

type EmployerConfig struct {
	InboxPath string `yaml:"inbox_path"`
}

// RateLimitConfig controls provider-level request pacing.
type RateLimitConfig struct {
	MinDelay        time.Duration            // minimum gap between requests to the same provider
	SourceOverrides map[string]time.Duration // per-source overrides, keyed by source name
}

// ScheduleConfig controls the daemon mode.
type ScheduleConfig struct {
	Every      time.Duration // interval between ingestion runs
	SweepAfter time.Duration // deactivate postings older than this, zero disables
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as
// strings).
type rawConfig struct {
	Store     StoreRaw           `yaml:"store"`
	Ingestion rawIngestionConfig `yaml:"ingestion"`
	Providers ProvidersConfig    `yaml:"providers"`
	RateLimit rawRateLimitConfig `yaml:"rate_limit"`
	Schedule  rawScheduleConfig  `yaml:"schedule"`
}

type StoreRaw struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

type rawIngestionConfig struct {
	Sources          []string `yaml:"sources"`
	Query            string   `yaml:"query"`
	Countries        []string `yaml:"countries"`
	Location         string   `yaml:"location"`
	MaxJobsPerSource int      `yaml:"max_jobs_per_source"`
	PageSize         int      `yaml:"page_size"`
	Concurrency      int      `yaml:"concurrency"`
	Overwrite        bool     `yaml:"overwrite"`
	Deduplicate      *bool    `yaml:"deduplicate"` // pointer so absence defaults to true
	FallbackCountry  string   `yaml:"fallback_country"`
	Timeout          string   `yaml:"timeout"`
	MaxRetries       int      `yaml:"max_retries"`
	RetryBaseDelay   string   `yaml:"retry_base_delay"`
}

type rawRateLimitConfig struct {
	MinDelay        string            `yaml:"min_delay"`
	SourceOverrides map[string]string `yaml:"source_overrides"`
}

type rawScheduleConfig struct {
	Every      string `yaml:"every"`
	SweepAfter string `yaml:"sweep_after"`
}

// Load reads and parses the YAML config file at path, expands environment
// variables, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout := 2 * time.Minute // default per run
	if raw.Ingestion.Timeout != "" {
		timeout, err = time.ParseDuration(raw.Ingestion.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ingestion.timeout %q: %w", raw.Ingestion.Timeout, err)
		}
	}

	retryBase := 500 * time.Millisecond // default
	if raw.Ingestion.RetryBaseDelay != "" {
		retryBase, err = time.ParseDuration(raw.Ingestion.RetryBaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse ingestion.retry_base_delay %q: %w", raw.Ingestion.RetryBaseDelay, err)
		}
	}

	minDelay := 1 * time.Second // default
	if raw.RateLimit.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
	}

	overrides := make(map[string]time.Duration)
	for source, v := range raw.RateLimit.SourceOverrides {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.source_overrides[%q]: %w", source, err)
		}
		overrides[source] = d
	}

	every := 6 * time.Hour // default daemon interval
	if raw.Schedule.Every != "" {
		every, err = time.ParseDuration(raw.Schedule.Every)
		if err != nil {
			return nil, fmt.Errorf("parse schedule.every %q: %w", raw.Schedule.Every, err)
		}
	}

	var sweepAfter time.Duration // zero disables sweeping
	if raw.Schedule.SweepAfter != "" {
		sweepAfter, err = time.ParseDuration(raw.Schedule.SweepAfter)
		if err != nil {
			return nil, fmt.Errorf("parse schedule.sweep_after %q: %w", raw.Schedule.SweepAfter, err)
		}
	}

	deduplicate := true
	if raw.Ingestion.Deduplicate != nil {
		deduplicate = *raw.Ingestion.Deduplicate
	}

	driver := raw.Store.Driver
	if driver == "" {
		driver = "sqlite"
	}
	dbPath := raw.Store.Path
	if dbPath == "" {
		dbPath = "jobsift.db"
	}

	cfg := &Config{
		Store: StoreConfig{
			Driver: driver,
			Path:   dbPath,
			DSN:    raw.Store.DSN,
		},
		Ingestion: IngestionConfig{
			Sources:          raw.Ingestion.Sources,
			Query:            raw.Ingestion.Query,
			Countries:        raw.Ingestion.Countries,
			Location:         raw.Ingestion.Location,
			MaxJobsPerSource: raw.Ingestion.MaxJobsPerSource,
			PageSize:         raw.Ingestion.PageSize,
			Concurrency:      raw.Ingestion.Concurrency,
			Overwrite:        raw.Ingestion.Overwrite,
			Deduplicate:      deduplicate,
			FallbackCountry:  raw.Ingestion.FallbackCountry,
			Timeout:          timeout,
			MaxRetries:       raw.Ingestion.MaxRetries,
			RetryBaseDelay:   retryBase,
		},
		Providers: raw.Providers,
		RateLimit: RateLimitConfig{
			MinDelay:        minDelay,
			SourceOverrides: overrides,
		},
		Schedule: ScheduleConfig{
			Every:      every,
			SweepAfter: sweepAfter,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// knownSources mirrors the adapters the CLI can wire up.
var knownSources = map[string]bool{
	"adzuna":    true,
	"jsearch":   true,
	"reed":      true,
	"employer":  true,
	"generated": true,
}

func validate(cfg *Config) error {
	switch cfg.Store.Driver {
	case "sqlite", "memory":
	case "postgres":
		if cfg.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required when driver is \"postgres\"")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", cfg.Store.Driver)
	}

	if len(cfg.Ingestion.Sources) == 0 {
		return fmt.Errorf("at least one ingestion source must be configured")
	}
	for _, s := range cfg.Ingestion.Sources {
		if !knownSources[s] {
			return fmt.Errorf("unknown ingestion source %q", s)
		}
	}

	if cfg.Ingestion.Timeout <= 0 {
		return fmt.Errorf("ingestion.timeout must be positive, got %v", cfg.Ingestion.Timeout)
	}
	if cfg.Schedule.Every < time.Minute {
		return fmt.Errorf("schedule.every must be at least 1m, got %v", cfg.Schedule.Every)
	}

	return nil
}
