// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gatekeep/internal/platform/config"
)

var strongSecret = strings.Repeat("k", 32)

/*
TestLoad_Defaults verifies default values when only required variables are set.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/auth")
	t.Setenv("JWT_SECRET", strongSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenValidity())
	assert.Equal(t, "gatekeep", cfg.JWTIssuer)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5*time.Minute, cfg.IdentityCacheTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, int32(20), cfg.DatabaseMaxConns)
	assert.Equal(t, 500*time.Millisecond, cfg.RedisTimeout)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.CacheEnabled())
}

/*
TestLoad_Overrides verifies that every variable is honored.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:gatekeep.db")
	t.Setenv("JWT_SECRET", strongSecret)
	t.Setenv("JWT_EXPIRATION_MS", "60000")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("IDENTITY_CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_MAX_CONNS", "4")
	t.Setenv("REDIS_TIMEOUT", "150ms")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, time.Minute, cfg.TokenValidity())
	assert.Equal(t, 30*time.Second, cfg.IdentityCacheTTL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, int32(4), cfg.DatabaseMaxConns)
	assert.Equal(t, 150*time.Millisecond, cfg.RedisTimeout)
}

/*
TestLoad_Invalid covers missing and rejected values.
*/
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing_database_url",
			env:     map[string]string{"JWT_SECRET": strongSecret},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing_secret",
			env:     map[string]string{"DATABASE_URL": "x"},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "weak_secret",
			env:     map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "short"},
			wantErr: "at least 32 bytes",
		},
		{
			name:    "unknown_driver",
			env:     map[string]string{"DATABASE_URL": "x", "JWT_SECRET": strongSecret, "DATABASE_DRIVER": "mysql"},
			wantErr: "DATABASE_DRIVER",
		},
		{
			name:    "zero_expiration",
			env:     map[string]string{"DATABASE_URL": "x", "JWT_SECRET": strongSecret, "JWT_EXPIRATION_MS": "0"},
			wantErr: "JWT_EXPIRATION_MS",
		},
		{
			name:    "sub_second_expiration",
			env:     map[string]string{"DATABASE_URL": "x", "JWT_SECRET": strongSecret, "JWT_EXPIRATION_MS": "500"},
			wantErr: "JWT_EXPIRATION_MS must be at least 1000",
		},
		{
			name:    "zero_pool_size",
			env:     map[string]string{"DATABASE_URL": "x", "JWT_SECRET": strongSecret, "DATABASE_MAX_CONNS": "0"},
			wantErr: "DATABASE_MAX_CONNS",
		},
		{
			name:    "zero_redis_timeout",
			env:     map[string]string{"DATABASE_URL": "x", "JWT_SECRET": strongSecret, "REDIS_TIMEOUT": "0s"},
			wantErr: "REDIS_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear anything a previous subtest or the host may have set
			for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "DATABASE_DRIVER", "JWT_EXPIRATION_MS", "DATABASE_MAX_CONNS", "REDIS_TIMEOUT"} {
				t.Setenv(key, "")
				require.NoError(t, os.Unsetenv(key))
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
