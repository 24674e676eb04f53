// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instrumentation for the API server.

Collectors are registered on an injected [prometheus.Registerer] rather than
the global default, so tests can build an isolated registry per case.

A nil [*Metrics] is valid and records nothing.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/gatekeep/internal/platform/constants"
)

// Outcome label values shared by the auth counters.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// unmatchedRoute labels requests that no route pattern matched, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics holds all Prometheus collectors of the service.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	loginAttempts       *prometheus.CounterVec
	registrations       *prometheus.CounterVec
	tokenVerifications  *prometheus.CounterVec
	identityCache       *prometheus.CounterVec
}

// New creates all collectors and registers them on registerer.
func New(registerer prometheus.Registerer) *Metrics {
	namespace := constants.AppName

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),

		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),

		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome",
		}, []string{"outcome"}),

		tokenVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_verifications_total",
			Help:      "Bearer token verifications by outcome",
		}, []string{"outcome"}),

		identityCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_cache_requests_total",
			Help:      "Identity cache lookups by result",
		}, []string{"result"}),
	}

	registerer.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.loginAttempts,
		m.registrations,
		m.tokenVerifications,
		m.identityCache,
	)

	return m
}

// # Domain Counters

// LoginAttempt records the outcome of one login.
func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// Registration records the outcome of one registration.
func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

// TokenVerification records the outcome of one bearer token check.
func (m *Metrics) TokenVerification(outcome string) {
	if m == nil {
		return
	}
	m.tokenVerifications.WithLabelValues(outcome).Inc()
}

// IdentityCache records one cache lookup result.
func (m *Metrics) IdentityCache(result string) {
	if m == nil {
		return
	}
	m.identityCache.WithLabelValues(result).Inc()
}

// # HTTP Instrumentation

// Middleware counts and times every request by its chi route pattern.
//
// It must run inside a chi router so the route context is populated once the
// downstream handler returns.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()
			wrapped := chimw.NewWrapResponseWriter(writer, request.ProtoMajor)

			next.ServeHTTP(wrapped, request)

			route := unmatchedRoute
			if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
				if pattern := routeContext.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			m.httpRequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(status)).Inc()
			m.httpRequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
		})
	}
}

// Handler serves the Prometheus exposition format for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
