// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Ebay        EbayConfig        `yaml:"ebay"`
	Accounts    []AccountConfig   `yaml:"accounts"`
	Polling     PollingConfig     `yaml:"polling"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	NATS        NATSConfig        `yaml:"nats"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines the SQLite search-definition store settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// EbayConfig defines eBay API settings shared by every account.
type EbayConfig struct {
	BuyingURL string          `yaml:"buying_url"`
	SearchURL string          `yaml:"search_url"`
	Site      string          `yaml:"site"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines eBay API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// AccountConfig defines one monitored eBay account. The token is typically
// supplied via environment substitution, e.g. token: ${EBW_TOKEN_ALICE}.
type AccountConfig struct {
	Name  string `yaml:"name"`
	Token string `yaml:"token"`
	Site  string `yaml:"site"`
}

// PollingConfig defines poll intervals and retry behavior.
type PollingConfig struct {
	BidsInterval      time.Duration `yaml:"bids_interval"`
	WatchlistInterval time.Duration `yaml:"watchlist_interval"`
	PurchasesInterval time.Duration `yaml:"purchases_interval"`
	InitialBackoff    time.Duration `yaml:"initial_backoff"`
	MaxBackoff        time.Duration `yaml:"max_backoff"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
}

// MaintenanceConfig defines the background maintenance schedule. A zero
// refresh_interval disables the safety-net refresh.
type MaintenanceConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
}

// NATSConfig defines the event/snapshot broker. When disabled, events are
// logged instead of published.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyEbayDefaults(&cfg.Ebay)
	applyPollingDefaults(&cfg.Polling)
	applyMaintenanceDefaults(&cfg.Maintenance)
	applyNATSDefaults(&cfg.NATS)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Path == "" {
		d.Path = "ebay-watcher.db"
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.Site == "" {
		e.Site = "EBAY-GB"
	}
	applyRateLimitDefaults(&e.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyPollingDefaults(p *PollingConfig) {
	if p.BidsInterval == 0 {
		p.BidsInterval = 5 * time.Minute
	}
	if p.WatchlistInterval == 0 {
		p.WatchlistInterval = 10 * time.Minute
	}
	if p.PurchasesInterval == 0 {
		p.PurchasesInterval = 30 * time.Minute
	}
	if p.InitialBackoff == 0 {
		p.InitialBackoff = 30 * time.Second
	}
	if p.MaxBackoff == 0 {
		p.MaxBackoff = 15 * time.Minute
	}
	if p.FetchTimeout == 0 {
		p.FetchTimeout = 30 * time.Second
	}
}

func applyMaintenanceDefaults(m *MaintenanceConfig) {
	if m.SweepInterval == 0 {
		m.SweepInterval = time.Minute
	}
}

func applyNATSDefaults(n *NATSConfig) {
	if n.URL == "" {
		n.URL = "nats://127.0.0.1:4222"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if len(cfg.Accounts) == 0 {
		errs = append(errs, fmt.Errorf("at least one account is required"))
	}
	seen := make(map[string]bool, len(cfg.Accounts))
	for i, acct := range cfg.Accounts {
		if acct.Name == "" {
			errs = append(errs, fmt.Errorf("accounts[%d].name is required", i))
			continue
		}
		if seen[acct.Name] {
			errs = append(errs, fmt.Errorf("duplicate account name %q", acct.Name))
		}
		seen[acct.Name] = true
		if acct.Token == "" {
			errs = append(errs, fmt.Errorf("accounts[%d].token is required", i))
		}
	}

	if cfg.Polling.InitialBackoff > cfg.Polling.MaxBackoff {
		errs = append(errs, fmt.Errorf(
			"polling.initial_backoff (%s) must not exceed polling.max_backoff (%s)",
			cfg.Polling.InitialBackoff, cfg.Polling.MaxBackoff,
		))
	}

	if cfg.NATS.Enabled && cfg.NATS.URL == "" {
		errs = append(errs, fmt.Errorf("nats.url is required when nats is enabled"))
	}

	return errors.Join(errs...)
}
