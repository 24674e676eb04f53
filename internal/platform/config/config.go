// Copyright (c) 2026 Gatekeep. All rights reserved.
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
  - DI-Friendly: Passed to core components (DB, Redis, TokenService) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/gatekeep/internal/platform/constants"
)

// Supported values of DATABASE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// # Configuration Schema

// Config holds all runtime configuration for the Gatekeep API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Credential store
	DatabaseDriver   string `env:"DATABASE_DRIVER"    envDefault:"postgres"`
	DatabaseURL      string `env:"DATABASE_URL,required"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"20"`

	// Optional identity cache (Redis). Empty disables caching.
	RedisURL         string        `env:"REDIS_URL"`
	RedisTimeout     time.Duration `env:"REDIS_TIMEOUT"      envDefault:"500ms"`
	IdentityCacheTTL time.Duration `env:"IDENTITY_CACHE_TTL" envDefault:"5m"`

	// Token signing
	JWTSecret       string `env:"JWT_SECRET,required,unset"`
	JWTExpirationMs int64  `env:"JWT_EXPIRATION_MS" envDefault:"86400000"`
	JWTIssuer       string `env:"JWT_ISSUER"        envDefault:"gatekeep"`

	// Password hashing work factor
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints the env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverSQLite {
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DatabaseDriver))
	}
	if len(c.JWTSecret) < constants.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", constants.MinSecretLength))
	}
	if c.TokenValidity() < constants.MinTokenValidity {
		errs = append(errs, fmt.Errorf("JWT_EXPIRATION_MS must be at least %d", constants.MinTokenValidity.Milliseconds()))
	}
	if c.DatabaseMaxConns <= 0 {
		errs = append(errs, errors.New("DATABASE_MAX_CONNS must be positive"))
	}
	if c.RedisTimeout <= 0 {
		errs = append(errs, errors.New("REDIS_TIMEOUT must be positive"))
	}
	if c.IdentityCacheTTL <= 0 {
		errs = append(errs, errors.New("IDENTITY_CACHE_TTL must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// TokenValidity converts JWT_EXPIRATION_MS to a duration.
func (c *Config) TokenValidity() time.Duration {
	return time.Duration(c.JWTExpirationMs) * time.Millisecond
}

// CacheEnabled reports whether a Redis identity cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}
