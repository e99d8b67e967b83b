// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity verifies admin bearer tokens and issues them on login.
// Two providers exist: a Supabase-compatible auth service reached over
// HTTP, and a built-in HS256 issuer backed by the admins table. Either can
// be wrapped by a Valkey cache of positive verification results.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidToken means the token was rejected: malformed, expired,
	// revoked or signed by someone else.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCredentials means a login attempt used a wrong email or
	// password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is the identity behind a verified token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	// ExpiresAt is zero when the provider does not report an expiry.
	ExpiresAt time.Time `json:"expiresAt"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Provider introspects and issues admin tokens.
type Provider interface {
	// Verify returns the user a token belongs to. Rejected tokens yield
	// ErrInvalidToken; any other error means the provider could not be
	// asked and the caller must still deny access.
	Verify(ctx context.Context, token string) (*User, error)
	// SignIn exchanges an email and password for a token.
	SignIn(ctx context.Context, email, password string) (*Token, error)
}
