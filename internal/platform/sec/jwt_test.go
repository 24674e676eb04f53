// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gatekeep/internal/platform/sec"
)

const (
	testSecret  = "0123456789abcdef0123456789abcdef"
	otherSecret = "fedcba9876543210fedcba9876543210"
	testIssuer  = "gatekeep-test"
)

func newTokenService(t *testing.T, secret string, opts ...sec.TokenOption) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(secret, time.Hour, testIssuer, opts...)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies that a freshly issued token decodes to its subject.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, testSecret)

	for _, subject := range []string{"alice", "bob", "üser-名前"} {
		token, err := service.Issue(subject)
		require.NoError(t, err)

		// 1. Compact JWS form: header.payload.signature
		assert.Len(t, strings.Split(token, "."), 3)

		// 2. Valid immediately after issuance
		assert.True(t, service.Verify(token))

		claims, err := service.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, subject, claims.Subject)
		assert.Equal(t, testIssuer, claims.Issuer)
		assert.NotEmpty(t, claims.ID)
		assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	}
}

/*
TestTokenService_NonDeterministic checks that two tokens for one subject differ.
*/
func TestTokenService_NonDeterministic(t *testing.T) {
	service := newTokenService(t, testSecret)

	first, err := service.Issue("alice")
	require.NoError(t, err)
	second, err := service.Issue("alice")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestTokenService_Expired rejects a token whose expiry lies in the past.
*/
func TestTokenService_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer := newTokenService(t, testSecret, sec.WithClock(func() time.Time { return issuedAt }))
	verifier := newTokenService(t, testSecret)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	// Signature is fine, only the clock disagrees
	assert.True(t, issuer.Verify(token))
	assert.False(t, verifier.Verify(token))

	_, err = verifier.Decode(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

/*
TestTokenService_ForeignKey rejects tokens signed with a different secret.
*/
func TestTokenService_ForeignKey(t *testing.T) {
	service := newTokenService(t, testSecret)
	foreign := newTokenService(t, otherSecret)

	token, err := foreign.Issue("alice")
	require.NoError(t, err)

	assert.False(t, service.Verify(token))
	_, err = service.Decode(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

/*
TestTokenService_Malformed collapses every malformed input into ErrInvalidToken.
*/
func TestTokenService_Malformed(t *testing.T) {
	service := newTokenService(t, testSecret)
	valid, err := service.Issue("alice")
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "garbage"},
		{"two_segments", parts[0] + "." + parts[1]},
		{"bad_base64", "!!!.???.***"},
		{"tampered_payload", tampered},
		{"stripped_signature", parts[0] + "." + parts[1] + "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Decode(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, sec.ErrInvalidToken)
			assert.False(t, service.Verify(tt.token))
		})
	}
}

/*
TestTokenService_RejectsNoneAlgorithm guards against the "alg: none" downgrade.
*/
func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	service := newTokenService(t, testSecret)

	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.False(t, service.Verify(unsigned))
}

/*
TestTokenService_WrongIssuer rejects a correctly signed token from another issuer.
*/
func TestTokenService_WrongIssuer(t *testing.T) {
	service := newTokenService(t, testSecret)
	other, err := sec.NewTokenService(testSecret, time.Hour, "someone-else")
	require.NoError(t, err)

	token, err := other.Issue("alice")
	require.NoError(t, err)

	assert.False(t, service.Verify(token))
}

/*
TestNewTokenService_KeySizes covers secret validation and algorithm selection.
*/
func TestNewTokenService_KeySizes(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantAlg string
		wantErr error
	}{
		{"too_short", "short-secret", "", sec.ErrWeakSecret},
		{"hs256", strings.Repeat("k", 32), "HS256", nil},
		{"hs384", strings.Repeat("k", 48), "HS384", nil},
		{"hs512", strings.Repeat("k", 64), "HS512", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := sec.NewTokenService(tt.secret, time.Minute, testIssuer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlg, service.Algorithm())

			token, err := service.Issue("alice")
			require.NoError(t, err)
			assert.True(t, service.Verify(token))
		})
	}
}

/*
TestNewTokenService_ValidityBounds refuses lifetimes shorter than one second.
*/
func TestNewTokenService_ValidityBounds(t *testing.T) {
	for _, validity := range []time.Duration{-time.Second, 0, 500 * time.Millisecond, 999 * time.Millisecond} {
		_, err := sec.NewTokenService(testSecret, validity, testIssuer)
		assert.ErrorContains(t, err, "token validity must be at least 1s", validity.String())
	}

	_, err := sec.NewTokenService(testSecret, time.Second, testIssuer)
	assert.NoError(t, err)
}

/*
TestTokenService_MinimumValidityAtSubSecondClock checks that a token issued
with the shortest validity verifies at once, wherever the clock sits within
its second.
*/
func TestTokenService_MinimumValidityAtSubSecondClock(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{0, 300 * time.Millisecond, 999 * time.Millisecond} {
		now := base.Add(offset)
		service, err := sec.NewTokenService(testSecret, time.Second, testIssuer, sec.WithClock(func() time.Time { return now }))
		require.NoError(t, err)

		token, err := service.Issue("alice")
		require.NoError(t, err)
		assert.True(t, service.Verify(token), "issued at %s", now.Format(time.StampMilli))
	}
}
