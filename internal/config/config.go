// Package config loads service settings from environment variables, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Store driver names accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`

	IngestWorkers int `env:"INGEST_WORKERS" envDefault:"8"`

	// Ownership resolver settings. When OWNERSHIP_BASE_URL is unset the
	// service falls back to labelling every record with DefaultOwner.
	OwnershipBaseURL   string        `env:"OWNERSHIP_BASE_URL"`
	OwnershipTimeout   time.Duration `env:"OWNERSHIP_TIMEOUT" envDefault:"5s"`
	OwnershipCacheSize int           `env:"OWNERSHIP_CACHE_SIZE" envDefault:"1000"`
	DefaultOwner       string        `env:"DEFAULT_OWNER" envDefault:"Unknown"`
}

// OwnershipEnabled reports whether a real resolver endpoint is configured.
func (c *Config) OwnershipEnabled() bool {
	return c.OwnershipBaseURL != ""
}

// Load reads configuration from the environment (optionally a .env file),
// applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("STORE_DRIVER is postgres but DATABASE_URL is not set")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.IngestWorkers <= 0 {
		return nil, errors.New("INGEST_WORKERS must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.OwnershipTimeout <= 0 {
		return nil, errors.New("OWNERSHIP_TIMEOUT must be positive")
	}
	if cfg.OwnershipCacheSize <= 0 {
		return nil, errors.New("OWNERSHIP_CACHE_SIZE must be positive")
	}

	return cfg, nil
}
