// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/gatekeep/internal/platform/metrics"
	"github.com/taibuivan/gatekeep/internal/platform/migration"
	"github.com/taibuivan/gatekeep/internal/platform/sec"
	"github.com/taibuivan/gatekeep/internal/platform/sqlite"
	"github.com/taibuivan/gatekeep/internal/users/auth"
)

var testSecret = strings.Repeat("s", 32)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// newSQLiteStore returns a migrated, in-memory credential store.
func newSQLiteStore(t *testing.T) *auth.SQLiteUserRepository {
	t.Helper()

	db, err := sqlite.Open(context.Background(), ":memory:", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migration.RunSQLite(db, discardLogger()))
	return auth.NewSQLiteUserRepository(db)
}

// fixture bundles a fully wired service over an in-memory store.
type fixture struct {
	store    *auth.SQLiteUserRepository
	tokens   *sec.TokenService
	service  *auth.Service
	registry *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newSQLiteStore(t)
	tokens, err := sec.NewTokenService(testSecret, time.Hour, "gatekeep")
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	service := auth.NewService(
		store,
		auth.NewIdentityLoader(store),
		sec.NewPasswordHasher(bcrypt.MinCost),
		tokens,
		metrics.New(registry),
	)

	return &fixture{store: store, tokens: tokens, service: service, registry: registry}
}

// registerAlice creates the reference account used across tests.
func (f *fixture) registerAlice(t *testing.T) *auth.User {
	t.Helper()

	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret",
	})
	require.NoError(t, err)
	return user
}
