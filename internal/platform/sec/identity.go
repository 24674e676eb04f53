// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Request Identity

// Identity is the resolved principal of a single request.
//
// It is created by [middleware.Authenticate] once a bearer token has been
// decoded and its subject resolved to a stored user, and it lives only in
// that request's [context.Context].
type Identity struct {
	// Username is the canonical username taken from the token subject.
	Username string

	// Authorities is always empty. There is no role model; the field keeps
	// the identity contract stable if one is added later.
	Authorities []string
}

// NewIdentity builds an [Identity] with an empty, non-nil authority set.
func NewIdentity(username string) *Identity {
	return &Identity{Username: username, Authorities: []string{}}
}
