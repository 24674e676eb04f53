// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # Identity Loading

// IdentityLoader resolves a canonical username to the stored user.
//
// It is consulted on login and on every authenticated request, so
// implementations may cache. Absent users yield [ErrUserNotFound].
type IdentityLoader interface {
	LoadByUsername(ctx context.Context, username string) (*User, error)
}

// StoreIdentityLoader reads identities straight from a [UserRepository].
type StoreIdentityLoader struct {
	users UserRepository
}

// NewIdentityLoader creates an uncached loader over users.
func NewIdentityLoader(users UserRepository) *StoreIdentityLoader {
	return &StoreIdentityLoader{users: users}
}

// LoadByUsername performs an exact-match lookup.
func (loader *StoreIdentityLoader) LoadByUsername(ctx context.Context, username string) (*User, error) {
	return loader.users.FindByUsername(ctx, username)
}
