// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the google/uuid library to generate Version 7 values. They are used
for request correlation IDs and for the 'jti' claim of access tokens, where
sortable-by-creation makes log searches cheap.
*/
package uuid

import (
	"github.com/google/uuid"
)

// # Generators

// New generates a new UUIDv7 string.
//
// When the time-ordered generator fails (no entropy source), it falls back to
// a random v4 value instead of aborting the request that asked for it.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
