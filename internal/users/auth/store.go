// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"strings"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// All lookups are exact matches; callers pass canonical values.
type UserRepository interface {

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: ErrUserNotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		ExistsByUsername reports whether an account uses the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - bool: True when a row matches
		  - error: Database retrieval failures
	*/
	ExistsByUsername(context context.Context, username string) (bool, error)

	/*
		ExistsByEmail reports whether an account uses the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - bool: True when a row matches
		  - error: Database retrieval failures
	*/
	ExistsByEmail(context context.Context, email string) (bool, error)

	/*
		Create persists a brand-new user account in a single statement.

		On success the store-assigned ID and creation time are written back
		into user.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: ErrUsernameTaken, ErrEmailTaken or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Ping verifies that the store is reachable.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Connectivity failures
	*/
	Ping(context context.Context) error
}

// duplicateError maps a unique-constraint detail to the matching domain error.
//
// Detail is a constraint name ("users_email_key") or a driver message
// ("UNIQUE constraint failed: users.email"). Unknown details return nil.
func duplicateError(detail string) error {
	switch {
	case strings.Contains(detail, "username"):
		return ErrUsernameTaken
	case strings.Contains(detail, "email"):
		return ErrEmailTaken
	default:
		return nil
	}
}
