// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gatekeep/internal/users/auth"
)

/*
TestSQLiteUserRepository_CreateAndFind verifies persistence and lookup.
*/
func TestSQLiteUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	// 1. Create assigns increasing identifiers
	alice := &auth.User{Username: "alice", Email: "a@x.com", PasswordHash: "hash-a"}
	bob := &auth.User{Username: "bob", Email: "b@x.com", PasswordHash: "hash-b"}
	require.NoError(t, store.Create(ctx, alice))
	require.NoError(t, store.Create(ctx, bob))

	assert.Positive(t, alice.ID)
	assert.Greater(t, bob.ID, alice.ID)
	assert.WithinDuration(t, time.Now(), alice.CreatedAt, time.Minute)

	// 2. Lookup is exact
	found, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)
	assert.Equal(t, "a@x.com", found.Email)
	assert.Equal(t, "hash-a", found.PasswordHash)
	assert.True(t, alice.CreatedAt.Equal(found.CreatedAt))

	_, err = store.FindByUsername(ctx, "ALICE")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	// 3. Existence checks
	exists, err := store.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.Ping(ctx))
}

/*
TestSQLiteUserRepository_Duplicates maps unique violations to domain errors.
*/
func TestSQLiteUserRepository_Duplicates(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	require.NoError(t, store.Create(ctx, &auth.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"}))

	err := store.Create(ctx, &auth.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)

	err = store.Create(ctx, &auth.User{Username: "carol", Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

/*
TestSQLiteUserRepository_IDsNeverReused checks AUTOINCREMENT semantics after a failed insert.
*/
func TestSQLiteUserRepository_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	first := &auth.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, store.Create(ctx, first))
	require.Error(t, store.Create(ctx, &auth.User{Username: "alice", Email: "z@x.com", PasswordHash: "h"}))

	second := &auth.User{Username: "bob", Email: "b@x.com", PasswordHash: "h"}
	require.NoError(t, store.Create(ctx, second))
	assert.Greater(t, second.ID, first.ID)
}
