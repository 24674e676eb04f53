// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for volatile data storage.

Gatekeep uses it only as an optional read-through cache in front of the
credential store, so that validating a bearer token does not cost a SQL
round trip on every request.

Core Responsibilities:

  - Volatility: Handles data with TTL (Time-To-Live).
  - Speed: Low-latency access compared to persistent SQL storage.

The service runs correctly without it; REDIS_URL is optional.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/gatekeep/internal/platform/constants"
)

const (
	dialTimeout = 3 * time.Second
	pingTimeout = 2 * time.Second
)

// NewClient parses a Redis URL and returns a ready-to-use client.
//
// Reads and writes sit on the request path, so both are bounded by
// operationTimeout (REDIS_TIMEOUT). A non-positive value falls back to
// [constants.DefaultCacheTimeout]. The connection announces itself as
// "gatekeep" in CLIENT LIST unless the URL names a client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - operationTimeout: Read and write deadline per command.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, operationTimeout time.Duration, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	// Pool configuration Tuning
	options.PoolSize = 10
	options.MinIdleConns = 2
	options.MaxIdleConns = 5

	if operationTimeout <= 0 {
		operationTimeout = constants.DefaultCacheTimeout
	}
	options.DialTimeout = dialTimeout
	options.ReadTimeout = operationTimeout
	options.WriteTimeout = operationTimeout

	if options.ClientName == "" {
		options.ClientName = constants.AppName
	}

	client := redis.NewClient(options)

	// Validate connectivity immediately at startup.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
		slog.Duration("operation_timeout", operationTimeout),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
