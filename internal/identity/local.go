// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blogpress/internal/models"
	"blogpress/internal/store"
)

// Authenticator checks admin credentials. *store.AdminStore satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.Admin, error)
}

// LocalConfig holds the signing parameters of the built-in issuer.
type LocalConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type adminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// LocalProvider issues and verifies HS256 tokens for rows in the admins
// table.
type LocalProvider struct {
	cfg    LocalConfig
	admins Authenticator
	now    func() time.Time
}

// NewLocalProvider creates a LocalProvider.
func NewLocalProvider(cfg LocalConfig, admins Authenticator) *LocalProvider {
	return &LocalProvider{cfg: cfg, admins: admins, now: time.Now}
}

// SignIn checks the password and issues a token valid for cfg.TTL.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Token, error) {
	admin, err := p.admins.Authenticate(ctx, email, password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("local sign in: %w", err)
	}

	now := p.now()
	expires := now.Add(p.cfg.TTL)
	claims := adminClaims{
		Email: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.cfg.Issuer,
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{AccessToken: signed, ExpiresAt: expires}, nil
}

// Verify checks the signature, issuer and expiry of a token.
func (p *LocalProvider) Verify(_ context.Context, token string) (*User, error) {
	var claims adminClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(p.cfg.Secret), nil
	},
		jwt.WithIssuer(p.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &User{
		ID:        claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
