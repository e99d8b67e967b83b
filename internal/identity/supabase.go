// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SupabaseProvider talks to the GoTrue endpoints of a Supabase project.
type SupabaseProvider struct {
	baseURL string
	anonKey string
	client  *http.Client
}

// NewSupabaseProvider creates a provider for the project at baseURL. A nil
// client gets a 10 second timeout.
func NewSupabaseProvider(baseURL, anonKey string, client *http.Client) *SupabaseProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SupabaseProvider{baseURL: baseURL, anonKey: anonKey, client: client}
}

type supabaseUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type supabaseSession struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Verify asks GET /auth/v1/user who the token belongs to.
func (p *SupabaseProvider) Verify(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("supabase verify request: %w", err)
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase verify: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("supabase verify: unexpected status %d", resp.StatusCode)
	}

	var u supabaseUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&u); err != nil {
		return nil, fmt.Errorf("supabase verify decode: %w", err)
	}
	if u.ID == "" {
		return nil, ErrInvalidToken
	}
	return &User{ID: u.ID, Email: u.Email, ExpiresAt: tokenExpiry(token)}, nil
}

// tokenExpiry reads the exp claim of a token GoTrue already accepted. The
// signature is not checked here. Opaque tokens report no expiry.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// SignIn uses the password grant of POST /auth/v1/token.
func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (*Token, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("supabase sign in encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("supabase sign in request: %w", err)
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase sign in: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrInvalidCredentials
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("supabase sign in: unexpected status %d", resp.StatusCode)
	}

	var s supabaseSession
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&s); err != nil {
		return nil, fmt.Errorf("supabase sign in decode: %w", err)
	}

	expires := time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	if s.ExpiresAt > 0 {
		expires = time.Unix(s.ExpiresAt, 0)
	}
	return &Token{AccessToken: s.AccessToken, ExpiresAt: expires}, nil
}
