// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics provides Prometheus metrics for blogpress.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts handled requests by route pattern.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogpress",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blogpress",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LikesTotal counts like ledger writes by subject kind and outcome.
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogpress",
			Name:      "likes_total",
			Help:      "Total number of like and unlike operations",
		},
		[]string{"subject", "action", "result"},
	)

	// CacheRequestsTotal counts response cache lookups.
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogpress",
			Name:      "cache_requests_total",
			Help:      "Total number of response cache lookups",
		},
		[]string{"result"},
	)

	// AuthFailuresTotal counts rejected admin requests by reason.
	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogpress",
			Name:      "auth_failures_total",
			Help:      "Total number of rejected admin requests",
		},
		[]string{"reason"},
	)

	// RateLimitedTotal counts requests rejected by the per-IP limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blogpress",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
	)
)

// RecordRequest records a finished HTTP request.
func RecordRequest(method, route string, status int, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordLike records a like or unlike. result is "ok", "conflict",
// "not_found" or "error".
func RecordLike(subject, action, result string) {
	LikesTotal.WithLabelValues(subject, action, result).Inc()
}

// RecordCache records a cache hit or miss.
func RecordCache(hit bool) {
	if hit {
		CacheRequestsTotal.WithLabelValues("hit").Inc()
		return
	}
	CacheRequestsTotal.WithLabelValues("miss").Inc()
}

// RecordAuthFailure records a rejected admin request.
func RecordAuthFailure(reason string) {
	AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
