// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/gatekeep/internal/platform/dberr"
	"github.com/taibuivan/gatekeep/internal/platform/postgres"
)

// # PostgreSQL User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users table.

Description: The identity column assigns the ID; a unique violation on
username or email is mapped to the matching domain error, which is how
concurrent registrations of the same name are resolved.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: ErrUsernameTaken, ErrEmailTaken or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if detail, ok := dberr.UniqueViolation(err); ok {
			if duplicate := duplicateError(detail); duplicate != nil {
				return duplicate
			}
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

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
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1`

	rows, _ := repository.pool.Query(context, query, username)
	user, err := pgx.CollectExactlyOneRow(rows, scanPostgresUser)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}

// ExistsByUsername reports whether the username is already registered.
func (repository *PostgresUserRepository) ExistsByUsername(context context.Context, username string) (bool, error) {
	return repository.exists(context, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

// ExistsByEmail reports whether the email is already registered.
func (repository *PostgresUserRepository) ExistsByEmail(context context.Context, email string) (bool, error) {
	return repository.exists(context, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func (repository *PostgresUserRepository) Ping(context context.Context) error {
	return postgres.Ping(context, repository.pool)
}

func (repository *PostgresUserRepository) exists(context context.Context, query, value string) (bool, error) {
	var found bool
	if err := repository.pool.QueryRow(context, query, value).Scan(&found); err != nil {
		return false, fmt.Errorf("postgres_user_repo_exists_failed: %w", err)
	}
	return found, nil
}

// scanPostgresUser maps one users row onto a [User].
func scanPostgresUser(row pgx.CollectableRow) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	return user, err
}
