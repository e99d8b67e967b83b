// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"blogpress/internal/metrics"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "resp:"

	// DefaultResponseTTL is how long a cached response body stays valid.
	DefaultResponseTTL = time.Minute
)

// Keys of the cached public collections.
const (
	KeyPosts      = "posts"
	KeyCategories = "categories"
)

// ResponseCache stores encoded JSON response bodies in Valkey. A nil
// *ResponseCache is valid and caches nothing, so callers need no branch
// when Valkey is not configured. Errors are logged and treated as misses.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get returns the cached body for key.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}

	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("response cache get error", "key", key, "error", err)
		}
		metrics.RecordCache(false)
		return nil, false
	}
	metrics.RecordCache(true)
	return val, true
}

// Set stores body under key with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if rc == nil {
		return
	}
	if err := rc.client.Set(ctx, responseKeyPrefix+key, body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the given keys.
func (rc *ResponseCache) Invalidate(ctx context.Context, keys ...string) {
	if rc == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = responseKeyPrefix + k
	}
	if err := rc.client.Del(ctx, full...).Err(); err != nil {
		slog.Warn("response cache invalidate error", "keys", keys, "error", err)
	}
}

// InvalidateAll removes every cached response by scanning for the prefix.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	if rc == nil {
		return
	}

	var cursor uint64
	var deleted int
	for {
		keys, next, err := rc.client.Scan(ctx, cursor, responseKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache cleared", "deleted", deleted)
	}
}
