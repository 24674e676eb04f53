// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taibuivan/gatekeep/internal/platform/dberr"
)

// # SQLite User Repository

// SQLiteUserRepository implements the UserRepository interface on database/sql.
//
// created_at is stored as Unix milliseconds so values round-trip exactly
// without relying on the driver's timestamp parsing.
type SQLiteUserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteUserRepository creates a new SQLite implementation of the UserRepository.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db, now: time.Now}
}

/*
Create persists a new user record into the users table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: ErrUsernameTaken, ErrEmailTaken or database errors
*/
func (repository *SQLiteUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`

	createdAt := repository.now().UTC().Truncate(time.Millisecond)

	err := repository.db.QueryRowContext(context, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		createdAt.UnixMilli(),
	).Scan(&user.ID)

	if err != nil {
		if detail, ok := dberr.UniqueViolation(err); ok {
			if duplicate := duplicateError(detail); duplicate != nil {
				return duplicate
			}
		}
		return fmt.Errorf("sqlite_user_repo_create_failed: %w", err)
	}

	user.CreatedAt = createdAt
	return nil
}

/*
FindByUsername retrieves a user record by its unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: ErrUserNotFound or database errors
*/
func (repository *SQLiteUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = ?`

	var createdAtMillis int64
	user := &User{}

	err := repository.db.QueryRowContext(context, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&createdAtMillis,
	)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("sqlite_user_repo_find_failed: %w", err)
	}

	user.CreatedAt = time.UnixMilli(createdAtMillis).UTC()
	return user, nil
}

// ExistsByUsername reports whether the username is already registered.
func (repository *SQLiteUserRepository) ExistsByUsername(context context.Context, username string) (bool, error) {
	return repository.exists(context, `SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`, username)
}

// ExistsByEmail reports whether the email is already registered.
func (repository *SQLiteUserRepository) ExistsByEmail(context context.Context, email string) (bool, error) {
	return repository.exists(context, `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`, email)
}

// Ping verifies that the database handle is usable.
func (repository *SQLiteUserRepository) Ping(context context.Context) error {
	if err := repository.db.PingContext(context); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}

func (repository *SQLiteUserRepository) exists(context context.Context, query, value string) (bool, error) {
	var found bool
	if err := repository.db.QueryRowContext(context, query, value).Scan(&found); err != nil {
		return false, fmt.Errorf("sqlite_user_repo_exists_failed: %w", err)
	}
	return found, nil
}
