// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenKeyPrefix namespaces cached verifications in Valkey. Keys hold a
// SHA-256 of the token, never the token itself.
const tokenKeyPrefix = "auth:token:"

// CachedProvider remembers successful verifications in Valkey for a short
// TTL so every admin request does not cost a round trip to the auth
// service. Rejections are never cached. Cache failures fall through to the
// wrapped provider.
type CachedProvider struct {
	next   Provider
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewCachedProvider wraps next with a Valkey cache.
func NewCachedProvider(next Provider, client *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, client: client, ttl: ttl, now: time.Now}
}

// Verify returns a cached user when present and otherwise asks the wrapped
// provider. A cached user whose token has expired is rejected.
func (p *CachedProvider) Verify(ctx context.Context, token string) (*User, error) {
	key := tokenKey(token)

	data, err := p.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var u User
		if err := json.Unmarshal(data, &u); err == nil {
			if !u.ExpiresAt.IsZero() && !u.ExpiresAt.After(p.now()) {
				p.client.Del(ctx, key)
				return nil, ErrInvalidToken
			}
			return &u, nil
		}
	case !errors.Is(err, redis.Nil):
		slog.Warn("token cache read failed", "error", err)
	}

	u, err := p.next.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	ttl := p.ttl
	if !u.ExpiresAt.IsZero() {
		if left := u.ExpiresAt.Sub(p.now()); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return u, nil
	}

	if data, err := json.Marshal(u); err == nil {
		if err := p.client.Set(ctx, key, data, ttl).Err(); err != nil {
			slog.Warn("token cache write failed", "error", err)
		}
	}
	return u, nil
}

// SignIn is never cached.
func (p *CachedProvider) SignIn(ctx context.Context, email, password string) (*Token, error) {
	return p.next.SignIn(ctx, email, password)
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenKeyPrefix + hex.EncodeToString(sum[:])
}
