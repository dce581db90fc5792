package config

import (
	"time"

	"github.com/nextgenai/nextgen/internal/ailink"
)

// Config represents the complete application configuration. Values come from
// defaults, an optional YAML file, .env files and NEXTGEN_* environment
// variables, in increasing order of precedence.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	AILink  ailink.Config `mapstructure:"ailink"`
	Client  ClientConfig  `mapstructure:"client"`
	Prefs   PrefsConfig   `mapstructure:"prefs"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// ClientKey is the static bearer token browser clients present on the
	// functions routes. Empty disables the check.
	ClientKey string `mapstructure:"client_key"`
	// AdminToken enables POST /admin/signal.
	AdminToken     string   `mapstructure:"admin_token"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxBodyBytes   int64    `mapstructure:"max_body_bytes"`
}

// StoreConfig contains database configuration for libsql/Turso
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// ClientConfig points the CLI composer at a generation proxy.
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Key     string        `mapstructure:"key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PrefsConfig holds local preference and history settings.
type PrefsConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity level
	// Valid values: SIMPLE, STRUCTURED
	Profile     string `mapstructure:"profile"`
	Environment string `mapstructure:"environment"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
