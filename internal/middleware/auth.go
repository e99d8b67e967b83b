// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"blogpress/internal/identity"
	"blogpress/internal/metrics"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// UserKey is the context key for the verified admin identity.
	UserKey contextKey = "user"
)

// Messages returned by RequireBearer.
const (
	msgMissingToken = "認証トークンがありません"
	msgAuthFailed   = "認証に失敗しました"
)

// TokenVerifier checks a bearer token. identity.Provider satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*identity.User, error)
}

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// token with 401 before any downstream handler runs. On success the
// verified user is stored in the request context. Provider outages also
// deny access.
func RequireBearer(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				metrics.RecordAuthFailure("missing")
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgMissingToken})
				return
			}

			user, err := v.Verify(r.Context(), token)
			if err != nil {
				reason := "invalid"
				if !errors.Is(err, identity.ErrInvalidToken) {
					reason = "provider"
					slog.Warn("token verification failed", "error", err, "path", r.URL.Path)
				}
				metrics.RecordAuthFailure(reason)
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgAuthFailed})
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(h, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserFromCtx extracts the verified admin from the request context.
// Returns nil outside RequireBearer.
func UserFromCtx(ctx context.Context) *identity.User {
	u, _ := ctx.Value(UserKey).(*identity.User)
	return u
}
