package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerPort     = 8080
	DefaultMetricsPath    = "/metrics"
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 10
	DefaultMinConns       = 2
	DefaultUniverseCode   = "core"
	DefaultProvider       = "TIINGO"
	DefaultSourceTag      = "tiingo"
	DefaultStalenessDays  = 183
	DefaultHorizonYears   = 5
	DefaultTiingoBaseURL  = "https://api.tiingo.com"
	DefaultEODHDBaseURL   = "https://eodhd.com"
	DefaultMaxRetries     = 3
	DefaultMaxBackoff     = 10 * time.Second
	DefaultFetchTimeout   = 30 * time.Second
)

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}

	applyDBDefaults(&c.Database)

	if c.Ingest.UniverseCode == "" {
		c.Ingest.UniverseCode = DefaultUniverseCode
	}
	if c.Ingest.Provider == "" {
		c.Ingest.Provider = DefaultProvider
	}
	if c.Ingest.SourceTag == "" {
		c.Ingest.SourceTag = DefaultSourceTag
	}
	if c.Ingest.StalenessThresholdDays == 0 {
		c.Ingest.StalenessThresholdDays = DefaultStalenessDays
	}
	if c.Ingest.BackfillHorizonYears == 0 {
		c.Ingest.BackfillHorizonYears = DefaultHorizonYears
	}

	applyProviderDefaults(&c.Providers.Tiingo, DefaultTiingoBaseURL)
	applyProviderDefaults(&c.Providers.EODHD, DefaultEODHDBaseURL)
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

func applyProviderDefaults(p *ProviderConfig, baseURL string) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.MaxBackoff == 0 {
		p.MaxBackoff = DefaultMaxBackoff
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultFetchTimeout
	}
}
