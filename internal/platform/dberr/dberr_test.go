// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gatekeep/internal/platform/dberr"
)

/*
TestIsNoRows recognises both drivers' sentinel, even when wrapped.
*/
func TestIsNoRows(t *testing.T) {
	assert.True(t, dberr.IsNoRows(pgx.ErrNoRows))
	assert.True(t, dberr.IsNoRows(fmt.Errorf("lookup: %w", sql.ErrNoRows)))
	assert.False(t, dberr.IsNoRows(errors.New("connection reset")))
	assert.False(t, dberr.IsNoRows(nil))
}

/*
TestUniqueViolation_Postgres extracts the constraint name from a PgError.
*/
func TestUniqueViolation_Postgres(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "users_email_key",
	})

	detail, ok := dberr.UniqueViolation(err)
	require.True(t, ok)
	assert.Equal(t, "users_email_key", detail)

	// Other SQLSTATEs are not unique violations
	_, ok = dberr.UniqueViolation(&pgconn.PgError{Code: pgerrcode.NotNullViolation})
	assert.False(t, ok)

	_, ok = dberr.UniqueViolation(errors.New("plain"))
	assert.False(t, ok)
}
