// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blogpress/internal/metrics"
)

// Metrics records request counts and latency labelled by the matched chi
// route pattern, so ids in paths do not explode label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		metrics.RecordRequest(r.Method, route, wrapped.statusCode, time.Since(start).Seconds())
	})
}
