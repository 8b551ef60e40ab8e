// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (stores, server) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the Bookshelf binaries.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// LogFile, when set, sends logs to a rotated file instead of the standard streams.
	LogFile string `env:"LOG_FILE"`

	// Storage selects the byte store backing the collection.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"file"`
	StorageKey    string `env:"STORAGE_KEY"    envDefault:"libros"`

	// DataFile is the JSON file used by the file driver.
	DataFile string `env:"DATA_FILE" envDefault:"./data/libros.json"`

	// Relational Database (PostgreSQL driver)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis driver)
	RedisURL string `env:"REDIS_URL"`

	// Cross-Origin Resource Sharing, comma separated origin suffixes.
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings each storage driver depends on.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case constants.StorageDriverMemory:
	case constants.StorageDriverFile:
		if strings.TrimSpace(c.DataFile) == "" {
			return fmt.Errorf("config: DATA_FILE is required for the %q storage driver", c.StorageDriver)
		}
	case constants.StorageDriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required for the %q storage driver", c.StorageDriver)
		}
	case constants.StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the %q storage driver", c.StorageDriver)
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("config: STORAGE_KEY must not be empty")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits ExtraOrigins into trimmed, non-empty suffixes.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
