// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, header names, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Security: Bearer scheme, token limits and cache prefixes.
  - Storage Timing: statement and cache operation deadlines.
  - Transport: Header names and JSON field identifiers.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "gatekeep"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// StartupTimeout bounds database and cache connection attempts at boot.
	StartupTimeout = 30 * time.Second
)

// # Storage Timing

const (
	// DatabaseStatementTimeout caps a single SQL statement on the server side.
	// It matches the request deadline so a stuck query cannot outlive its request.
	DatabaseStatementTimeout = GlobalRequestTimeout

	// DefaultCacheTimeout bounds one Redis read or write on the request path.
	DefaultCacheTimeout = 500 * time.Millisecond
)

// # Authentication

const (
	// BearerPrefix is the literal prefix of a bearer credential in the Authorization header.
	// Matching is case-sensitive.
	BearerPrefix = "Bearer "

	// TokenType is the value returned to clients alongside an access token.
	TokenType = "Bearer"

	// MinSecretLength is the minimum HMAC key length in bytes (256 bits).
	MinSecretLength = 32

	// MinTokenValidity is the shortest accepted token lifetime. JWT timestamps
	// have whole-second precision, so anything shorter can expire on issue.
	MinTokenValidity = time.Second
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderOrigin        = "Origin"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderContentType   = "Content-Type"
)

// # JSON Field Identifiers

const (
	FieldError  = "error"
	FieldCode   = "code"
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixIdentity = "auth:identity:"
)
