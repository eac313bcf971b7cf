// Package config loads and validates the service configuration from YAML,
// with ${VAR} environment expansion for secrets.
package config

import "time"

// Config is the root configuration for the ingestion service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DBConfig        `yaml:"database"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Providers ProvidersConfig `yaml:"providers"`
}

// ServerConfig holds the HTTP trigger endpoint settings.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPath string `yaml:"metrics_path"`
}

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// IngestConfig holds run-level ingestion policy.
type IngestConfig struct {
	// UniverseCode is the static fallback when neither the caller nor the
	// catalog supplies a universe.
	UniverseCode string `yaml:"universe_code"`

	// SourceTag is written on every upserted row.
	SourceTag string `yaml:"source_tag"`

	// Provider selects the fetcher variant ("TIINGO" or "EODHD").
	Provider string `yaml:"provider"`

	// StalenessThresholdDays: instruments whose last stored trade date is
	// older than this switch from an incremental fetch to a full backfill.
	StalenessThresholdDays int `yaml:"staleness_threshold_days"`

	// BackfillHorizonYears bounds how far back a full backfill reaches.
	BackfillHorizonYears int `yaml:"backfill_horizon_years"`
}

// ProvidersConfig holds per-provider settings.
type ProvidersConfig struct {
	Tiingo ProviderConfig `yaml:"tiingo"`
	EODHD  ProviderConfig `yaml:"eodhd"`
}

// ProviderConfig holds one provider variant's settings. Token usually
// arrives via ${VAR} expansion from the environment.
type ProviderConfig struct {
	BaseURL              string        `yaml:"base_url"`
	Token                string        `yaml:"token"`
	ReplaceDotWithHyphen bool          `yaml:"replace_dot_with_hyphen"`
	MaxRetries           int           `yaml:"max_retries"`
	MaxBackoff           time.Duration `yaml:"max_backoff"`
	Timeout              time.Duration `yaml:"timeout"`
}
