package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the service configuration. Environment variables are parsed
// from the FOCUSGATE_ prefix, e.g. FOCUSGATE_HTTP_PORT.
type Config struct {
	// Build target selects the high-level environment: local or cloud-dev.
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// DBDriver is derived from BuildTarget when set to "auto".
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// SQLite configuration (local target)
	SQLitePath string `envconfig:"SQLITE_PATH" default:"./data/focusgate.db"`

	// Postgres configuration (cloud-dev target)
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// EngineConfigPath points at an optional YAML file overriding the
	// built-in scoring tables (keyword lists, domain sets, thresholds).
	EngineConfigPath string `envconfig:"ENGINE_CONFIG_PATH" default:""`

	// DefaultUserID is assumed when a request carries no X-User-ID header.
	DefaultUserID string `envconfig:"DEFAULT_USER_ID" default:"default_user"`

	// Feature flags
	LearningEnabled     bool `envconfig:"LEARNING_ENABLED" default:"true"`
	InterventionEnabled bool `envconfig:"INTERVENTION_ENABLED" default:"true"`

	// Event bus
	EventBufferSize int `envconfig:"EVENT_BUFFER_SIZE" default:"256"`

	// Health probing
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when "auto".
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud-dev":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"sqlite": true, "postgres": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("FOCUSGATE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Bool("learning_enabled", cfg.LearningEnabled).
		Bool("intervention_enabled", cfg.InterventionEnabled).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config suitable for unit tests: sqlite in-memory,
// learning and intervention enabled.
func NewForTesting() *Config {
	cfg := &Config{
		BuildTarget:               "local",
		DBDriver:                  "sqlite",
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		SQLitePath:                ":memory:",
		DefaultUserID:             "default_user",
		LearningEnabled:           true,
		InterventionEnabled:       true,
		EventBufferSize:           16,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
	return cfg
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
