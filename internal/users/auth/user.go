// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements user registration, credential checks and bearer
token authentication.

It defines the User entity, the credential store contract and its PostgreSQL
and SQLite implementations, the identity loader (optionally cached in Redis),
and the HTTP surface mounted at /api/auth.

# Architecture

  - Service: Orchestrates Register, Login, CurrentUser and Logout.
  - Repository: Credential store interfaces and their SQL implementations.
  - Loader: Resolves a token subject back to a stored user.

There is no server-side session state. A token alone authenticates a request
until it expires.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered account.
//
// Users are created once and never updated or deleted. Username and email
// are stored in canonical form (see [fold.Identifier]).
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
}

// # Field Identifiers

// Field names used in validation errors and request payloads.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// # Input Constraints

const (
	// MaxUsernameLength matches the users.username column width.
	MaxUsernameLength = 50

	// MaxEmailLength matches the users.email column width.
	MaxEmailLength = 255
)
