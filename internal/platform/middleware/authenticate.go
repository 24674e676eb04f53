// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/gatekeep/internal/platform/apperr"
	"github.com/taibuivan/gatekeep/internal/platform/constants"
	"github.com/taibuivan/gatekeep/internal/platform/ctxutil"
	"github.com/taibuivan/gatekeep/internal/platform/respond"
	"github.com/taibuivan/gatekeep/internal/platform/sec"
)

// Authenticator resolves a raw bearer token to the identity it represents.
//
// Declaring it here keeps the middleware independent of the auth service and
// lets tests substitute a stub.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*sec.Identity, error)
}

// Authenticate resolves the bearer token of each request to an identity.
//
// # Flow
//  1. Skip unless the Authorization header starts with the literal "Bearer ".
//  2. Skip when nothing follows the prefix.
//  3. Resolve the token via [Authenticator].
//  4. On success attach [*sec.Identity] to the request context.
//
// The next handler is always called. Resolution failures, including panics,
// are logged here and the request simply continues without an identity;
// routes that need one reject it through [RequireAuth].
func Authenticate(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get(constants.HeaderAuthorization)

			// 1. Anonymous Access
			token, found := strings.CutPrefix(header, constants.BearerPrefix)
			if !found || token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Identity Resolution
			identity := resolve(request.Context(), authenticator, token)
			if identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			// 3. Context Injection
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			logger := ctxutil.GetLogger(ctx).With(slog.String("username", identity.Username))
			ctx = ctxutil.WithLogger(ctx, logger)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// resolve calls the authenticator and contains every failure it may raise.
func resolve(ctx context.Context, authenticator Authenticator, token string) (identity *sec.Identity) {
	logger := ctxutil.GetLogger(ctx)

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.ErrorContext(ctx, "bearer_authentication_panicked",
				slog.String("error", fmt.Sprint(recovered)),
			)
			identity = nil
		}
	}()

	identity, err := authenticator.Authenticate(ctx, token)
	if err != nil {
		if apperr.StatusOf(err) >= http.StatusInternalServerError {
			logger.ErrorContext(ctx, "bearer_authentication_failed", slog.Any("error", err))
		} else {
			logger.DebugContext(ctx, "bearer_token_rejected", slog.String("reason", err.Error()))
		}
		return nil
	}
	return identity
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetIdentity(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
