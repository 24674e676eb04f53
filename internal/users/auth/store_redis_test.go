// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gatekeep/internal/platform/metrics"
	"github.com/taibuivan/gatekeep/internal/users/auth"
)

// countingLoader serves a fixed set of users and counts lookups.
type countingLoader struct {
	users map[string]*auth.User
	calls int
}

func (loader *countingLoader) LoadByUsername(_ context.Context, username string) (*auth.User, error) {
	loader.calls++
	if user, ok := loader.users[username]; ok {
		return user, nil
	}
	return nil, auth.ErrUserNotFound
}

func newCachedLoader(t *testing.T) (*auth.CachedIdentityLoader, *countingLoader, *miniredis.Miniredis, *prometheus.Registry) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	backing := &countingLoader{users: map[string]*auth.User{
		"alice": {
			ID:           7,
			Username:     "alice",
			Email:        "a@x.com",
			PasswordHash: "$2a$04$hash",
			CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}}

	registry := prometheus.NewRegistry()
	loader := auth.NewCachedIdentityLoader(backing, client, 5*time.Minute, metrics.New(registry))

	return loader, backing, server, registry
}

/*
TestCachedIdentityLoader_ReadThrough verifies that a hit skips the store.
*/
func TestCachedIdentityLoader_ReadThrough(t *testing.T) {
	ctx := context.Background()
	loader, backing, server, registry := newCachedLoader(t)

	// 1. First lookup misses and populates the cache
	first, err := loader.LoadByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, backing.calls)
	assert.True(t, server.Exists("auth:identity:alice"))
	assert.Equal(t, 5*time.Minute, server.TTL("auth:identity:alice"))

	// 2. Second lookup is served from Redis, password hash included
	second, err := loader.LoadByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, backing.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "$2a$04$hash", second.PasswordHash)

	expected := `
# HELP gatekeep_identity_cache_requests_total Identity cache lookups by result
# TYPE gatekeep_identity_cache_requests_total counter
gatekeep_identity_cache_requests_total{result="hit"} 1
gatekeep_identity_cache_requests_total{result="miss"} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "gatekeep_identity_cache_requests_total"))
}

/*
TestCachedIdentityLoader_MissNotCached ensures unknown users are never cached.
*/
func TestCachedIdentityLoader_MissNotCached(t *testing.T) {
	ctx := context.Background()
	loader, backing, server, _ := newCachedLoader(t)

	_, err := loader.LoadByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
	assert.False(t, server.Exists("auth:identity:ghost"))

	// A user appearing later resolves at once
	backing.users["ghost"] = &auth.User{ID: 8, Username: "ghost", Email: "g@x.com"}
	user, err := loader.LoadByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(8), user.ID)
}

/*
TestCachedIdentityLoader_Degrades falls back to the store on cache failures.
*/
func TestCachedIdentityLoader_Degrades(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt_entry", func(t *testing.T) {
		loader, backing, server, _ := newCachedLoader(t)
		require.NoError(t, server.Set("auth:identity:alice", "{not json"))

		user, err := loader.LoadByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, 1, backing.calls)
	})

	t.Run("redis_down", func(t *testing.T) {
		loader, backing, server, registry := newCachedLoader(t)
		server.Close()

		user, err := loader.LoadByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, 1, backing.calls)

		count, err := testutil.GatherAndCount(registry, "gatekeep_identity_cache_requests_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
