// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gatekeep/internal/platform/ctxutil"
	"github.com/taibuivan/gatekeep/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Identity verifies that an Identity can be stored in context.
*/
func TestContext_Identity(t *testing.T) {
	ctx := context.Background()

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetIdentity(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithIdentity(ctx, sec.NewIdentity("alice"))
	retrieved := ctxutil.GetIdentity(ctx)

	require.NotNil(t, retrieved)
	assert.Equal(t, "alice", retrieved.Username)
	assert.NotNil(t, retrieved.Authorities)
	assert.Empty(t, retrieved.Authorities)
}

/*
TestContext_IdentityIsolation checks that a child context does not leak into its parent.
*/
func TestContext_IdentityIsolation(t *testing.T) {
	parent := context.Background()
	child := ctxutil.WithIdentity(parent, sec.NewIdentity("alice"))

	assert.NotNil(t, ctxutil.GetIdentity(child))
	assert.Nil(t, ctxutil.GetIdentity(parent))
}
