// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "github.com/taibuivan/gatekeep/internal/platform/apperr"

// # Domain Errors

var (
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = apperr.BadRequest("USERNAME_TAKEN", "Username is already taken!")

	// ErrEmailTaken is returned when registering an email that is already in use.
	ErrEmailTaken = apperr.BadRequest("EMAIL_TAKEN", "Email is already in use!")

	// ErrBadCredentials covers both an unknown username and a wrong password.
	ErrBadCredentials = apperr.Unauthorized("Invalid username or password")

	// ErrNotAuthenticated is returned by /me for anonymous or stale identities.
	ErrNotAuthenticated = apperr.Unauthorized("User not authenticated")

	// ErrInvalidBearer wraps every token decode failure.
	ErrInvalidBearer = apperr.Unauthorized("Invalid or expired token")

	// ErrUserNotFound is returned by the store and loader when no user matches.
	ErrUserNotFound = apperr.NotFound("User")
)
