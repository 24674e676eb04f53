// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fold canonicalizes user-supplied identifiers before they are
// stored or looked up.
//
// # Usage
//
// Usernames and emails are compared by exact match in storage. Running both
// the write path and the lookup path through [Identifier] makes "Alice",
// " alice " and "ALICE" resolve to the same account.
package fold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identifier returns the canonical form of a username or email.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFKC (compatibility forms: "ﬁ" → "fi", full-width → ASCII).
// 3. Applies Unicode case folding ("Straße" → "strasse").
// 4. Re-normalizes to NFC, since folding may produce decomposed sequences.
func Identifier(s string) string {
	t := transform.Chain(norm.NFKC, cases.Fold(), norm.NFC)
	result, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		// Transformers above never fail on valid UTF-8; fall back to a
		// plain lowercase for anything else.
		return strings.ToLower(strings.TrimSpace(s))
	}
	return result
}
