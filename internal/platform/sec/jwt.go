// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer through small interfaces declared by the consumers.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/gatekeep/internal/platform/constants"
	"github.com/taibuivan/gatekeep/pkg/uuid"
)

var (
	// ErrInvalidToken is wrapped by every [TokenService.Decode] failure.
	ErrInvalidToken = errors.New("sec: invalid token")

	// ErrWeakSecret is returned when the signing secret is shorter than
	// [constants.MinSecretLength] bytes.
	ErrWeakSecret = fmt.Errorf("sec: signing secret must be at least %d bytes", constants.MinSecretLength)
)

// Claims is the payload embedded inside an access token.
//
// Only registered claims are used: the subject carries the username, and
// the ID is a UUIDv7 used for log correlation.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and decodes HMAC-signed JWT access tokens.
//
// A single secret serves every token for the process lifetime. There is no
// key id and no rotation.
type TokenService struct {
	secret   []byte
	method   jwt.SigningMethod
	validity time.Duration
	issuer   string
	now      func() time.Time
}

// TokenOption customizes a [TokenService].
type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for both issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a new TokenService.
//
// The HMAC variant follows the key size: 64+ bytes sign with HS512, 48+ with
// HS384, anything else with HS256. Keys under 32 bytes are refused, as are
// validities under [constants.MinTokenValidity].
func NewTokenService(secret string, validity time.Duration, issuer string, opts ...TokenOption) (*TokenService, error) {
	key := []byte(secret)
	if len(key) < constants.MinSecretLength {
		return nil, ErrWeakSecret
	}
	if validity < constants.MinTokenValidity {
		return nil, fmt.Errorf("sec: token validity must be at least %s, got %s", constants.MinTokenValidity, validity)
	}

	service := &TokenService{
		secret:   key,
		method:   signingMethodFor(key),
		validity: validity,
		issuer:   issuer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Algorithm reports the JWS algorithm name used to sign tokens.
func (service *TokenService) Algorithm() string {
	return service.method.Alg()
}

// Validity reports how long an issued token remains valid.
func (service *TokenService) Validity() time.Duration {
	return service.validity
}

// Issue creates a signed access token for subject.
func (service *TokenService) Issue(subject string) (string, error) {
	currentTime := service.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.validity)),
		},
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode verifies a token and returns its claims.
//
// Structure, algorithm, HMAC signature, issuer and expiry are all checked in
// one call; claims are only returned when every check passes. Signature
// comparison is constant-time (hmac.Equal inside golang-jwt). Expiry uses the
// local clock with no leeway.
func (service *TokenService) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{service.method.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Verify reports whether tokenString passes every check of [TokenService.Decode].
func (service *TokenService) Verify(tokenString string) bool {
	_, err := service.Decode(tokenString)
	return err == nil
}

// signingMethodFor picks the strongest HMAC variant the key length supports.
func signingMethodFor(key []byte) jwt.SigningMethod {
	switch {
	case len(key) >= 64:
		return jwt.SigningMethodHS512
	case len(key) >= 48:
		return jwt.SigningMethodHS384
	default:
		return jwt.SigningMethodHS256
	}
}
