// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqlite opens the embedded SQLite database used for single-node and
// test deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

// pragmas are applied once on the single pooled connection.
var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA synchronous = NORMAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

// Open opens the database at path and applies connection pragmas.
//
// DATABASE_URL may be given as "sqlite://path", "file:path" or a bare path.
// Use ":memory:" for an in-memory database.
//
// The pool holds exactly one connection: SQLite allows a single writer, and
// an in-memory database exists only for the connection that created it.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*sql.DB, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: failed to set pragma %q: %w", pragma, err)
		}
	}

	logger.Info("sqlite_database_opened", slog.String("path", path))

	return db, nil
}
