// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/gatekeep/internal/platform/constants"
	"github.com/taibuivan/gatekeep/internal/platform/ctxutil"
	"github.com/taibuivan/gatekeep/internal/platform/metrics"
)

// # Cached Identity Loader

// CachedIdentityLoader is a read-through Redis cache in front of another loader.
//
// Users are immutable once created, so an entry never goes stale within its
// TTL. Misses are not cached: a username registered a moment after a failed
// lookup must resolve immediately. Any Redis failure falls back to the
// wrapped loader.
type CachedIdentityLoader struct {
	next    IdentityLoader
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// cachedUser is the Redis representation of a [User].
//
// It exists because [User] hides the password hash from JSON, while a cached
// entry must carry it for login.
type cachedUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCachedIdentityLoader wraps next with a Redis cache of the given TTL.
func NewCachedIdentityLoader(next IdentityLoader, client *redis.Client, ttl time.Duration, collectors *metrics.Metrics) *CachedIdentityLoader {
	return &CachedIdentityLoader{
		next:    next,
		client:  client,
		ttl:     ttl,
		metrics: collectors,
	}
}

/*
LoadByUsername returns the cached user or loads and caches it.

Parameters:
  - ctx: context.Context
  - username: string (canonical)

Returns:
  - *User: Hydrated entity
  - error: ErrUserNotFound or errors of the wrapped loader
*/
func (loader *CachedIdentityLoader) LoadByUsername(ctx context.Context, username string) (*User, error) {
	key := constants.RedisPrefixIdentity + username
	logger := ctxutil.GetLogger(ctx)

	// 1. Try the cache
	payload, err := loader.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var entry cachedUser
		if decodeError := json.Unmarshal(payload, &entry); decodeError == nil {
			loader.metrics.IdentityCache(metrics.CacheHit)
			return entry.toUser(), nil
		}
		logger.WarnContext(ctx, "identity_cache_entry_corrupt", slog.String("key", key))
		loader.metrics.IdentityCache(metrics.CacheError)
	case errors.Is(err, redis.Nil):
		loader.metrics.IdentityCache(metrics.CacheMiss)
	default:
		logger.WarnContext(ctx, "identity_cache_read_failed", slog.Any("error", err))
		loader.metrics.IdentityCache(metrics.CacheError)
	}

	// 2. Fall through to the wrapped loader
	user, err := loader.next.LoadByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	// 3. Populate the cache; failure here only costs a future miss
	encoded, err := json.Marshal(newCachedUser(user))
	if err == nil {
		err = loader.client.Set(ctx, key, encoded, loader.ttl).Err()
	}
	if err != nil {
		logger.WarnContext(ctx, "identity_cache_write_failed", slog.Any("error", err))
	}

	return user, nil
}

func newCachedUser(user *User) cachedUser {
	return cachedUser{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
}

func (entry cachedUser) toUser() *User {
	return &User{
		ID:           entry.ID,
		Username:     entry.Username,
		Email:        entry.Email,
		PasswordHash: entry.PasswordHash,
		CreatedAt:    entry.CreatedAt,
	}
}
