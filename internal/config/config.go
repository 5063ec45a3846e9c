// Package config loads server configuration from the environment, with an
// optional crewdeck.yaml file applied first so env vars always win.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Server holds the serve command's configuration
type Server struct {
	// Addr is the listen address for the REST API
	Addr string `env:"CREWDECK_ADDR" yaml:"addr"`

	// DBPath is the SQLite database file path
	DBPath string `env:"CREWDECK_DB" yaml:"db_path"`

	// IngestRatePerSecond caps extension sync POSTs per second
	IngestRatePerSecond float64 `env:"CREWDECK_INGEST_RATE" yaml:"ingest_rate_per_second"`

	// IngestBurst is the rate limiter's burst allowance
	IngestBurst int `env:"CREWDECK_INGEST_BURST" yaml:"ingest_burst"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `env:"CREWDECK_SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout"`

	Retention Retention `yaml:"retention"`
}

// Retention controls background cleanup of notifications and audit events
type Retention struct {
	// NotificationDays is how long read notifications are kept.
	// Range: 1-365.
	NotificationDays int `env:"CREWDECK_NOTIFICATION_RETENTION_DAYS" yaml:"notification_days"`

	// EventDays is how long audit events are kept. Range: 1-730.
	EventDays int `env:"CREWDECK_EVENT_RETENTION_DAYS" yaml:"event_days"`

	// Interval is how often the serve command runs cleanup.
	// Range: 1h-168h.
	Interval time.Duration `env:"CREWDECK_CLEANUP_INTERVAL" yaml:"interval"`

	// Enabled controls whether serve runs cleanup at all
	Enabled bool `env:"CREWDECK_CLEANUP_ENABLED" yaml:"enabled"`
}

// DefaultServer returns the default server configuration
func DefaultServer() Server {
	return Server{
		Addr:                ":8377",
		DBPath:              ".crewdeck/crewdeck.db",
		IngestRatePerSecond: 5,
		IngestBurst:         10,
		ShutdownTimeout:     10 * time.Second,
		Retention:           DefaultRetention(),
	}
}

// DefaultRetention returns the default retention configuration: a month of
// read notifications, a quarter of audit history, daily cleanup.
func DefaultRetention() Retention {
	return Retention{
		NotificationDays: 30,
		EventDays:        90,
		Interval:         24 * time.Hour,
		Enabled:          true,
	}
}

// Load builds the server config: defaults, then the YAML file at path (if
// it exists; empty path means "crewdeck.yaml", missing file is fine), then
// environment variables on top.
func Load(path string) (Server, error) {
	cfg := DefaultServer()

	if path == "" {
		path = "crewdeck.yaml"
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks if the configuration has valid values
func (c Server) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}
	if c.IngestRatePerSecond <= 0 {
		return fmt.Errorf("ingest_rate_per_second must be positive (got %g)", c.IngestRatePerSecond)
	}
	if c.IngestBurst < 1 {
		return fmt.Errorf("ingest_burst must be at least 1 (got %d)", c.IngestBurst)
	}
	return c.Retention.Validate()
}

// Validate checks if the retention configuration has valid values
func (r Retention) Validate() error {
	if r.NotificationDays < 1 || r.NotificationDays > 365 {
		return fmt.Errorf("notification_days must be between 1 and 365 (got %d)", r.NotificationDays)
	}
	if r.EventDays < 1 || r.EventDays > 730 {
		return fmt.Errorf("event_days must be between 1 and 730 (got %d)", r.EventDays)
	}
	if r.Interval < time.Hour || r.Interval > 168*time.Hour {
		return fmt.Errorf("interval must be between 1h and 168h (got %s)", r.Interval)
	}
	return nil
}
