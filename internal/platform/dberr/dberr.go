// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies driver errors so repositories can map them onto
// domain errors.
//
// It understands both storage drivers in use: pgx (PostgreSQL) and
// modernc.org/sqlite.
package dberr

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsNoRows reports whether err means a single-row query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// UniqueViolation reports whether err is a unique-constraint violation.
//
// The returned detail identifies the offending constraint: the constraint
// name for PostgreSQL ("users_email_key"), the driver message for SQLite
// ("UNIQUE constraint failed: users.email").
func UniqueViolation(err error) (detail string, ok bool) {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		return pgError.ConstraintName, true
	}

	var sqliteError *sqlite.Error
	if errors.As(err, &sqliteError) && sqliteError.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return sqliteError.Error(), true
	}

	return "", false
}
