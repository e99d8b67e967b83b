// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// testCache returns a ResponseCache on an in-process miniredis.
func testCache(t *testing.T) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewResponseCache(client, time.Minute), mr
}

func TestResponseCacheSetGet(t *testing.T) {
	rc, _ := testCache(t)
	ctx := context.Background()

	if _, ok := rc.Get(ctx, KeyPosts); ok {
		t.Fatal("expected miss on empty cache")
	}

	rc.Set(ctx, KeyPosts, []byte(`[{"id":"1"}]`))

	got, ok := rc.Get(ctx, KeyPosts)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("body: got %s", got)
	}
}

func TestResponseCacheTTL(t *testing.T) {
	rc, mr := testCache(t)
	ctx := context.Background()

	rc.Set(ctx, KeyCategories, []byte(`[]`))
	if ttl := mr.TTL(responseKeyPrefix + KeyCategories); ttl != time.Minute {
		t.Errorf("ttl: got %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := rc.Get(ctx, KeyCategories); ok {
		t.Error("expected miss after TTL elapsed")
	}
}

func TestResponseCacheInvalidate(t *testing.T) {
	rc, _ := testCache(t)
	ctx := context.Background()

	rc.Set(ctx, KeyPosts, []byte(`a`))
	rc.Set(ctx, KeyCategories, []byte(`b`))

	rc.Invalidate(ctx, KeyPosts)

	if _, ok := rc.Get(ctx, KeyPosts); ok {
		t.Error("posts should be invalidated")
	}
	if _, ok := rc.Get(ctx, KeyCategories); !ok {
		t.Error("categories should still be cached")
	}
}

func TestResponseCacheInvalidateAll(t *testing.T) {
	rc, mr := testCache(t)
	ctx := context.Background()

	rc.Set(ctx, KeyPosts, []byte(`a`))
	rc.Set(ctx, KeyCategories, []byte(`b`))
	mr.Set("unrelated", "keep")

	rc.InvalidateAll(ctx)

	if _, ok := rc.Get(ctx, KeyPosts); ok {
		t.Error("posts should be cleared")
	}
	if _, ok := rc.Get(ctx, KeyCategories); ok {
		t.Error("categories should be cleared")
	}
	if !mr.Exists("unrelated") {
		t.Error("keys outside the prefix must survive")
	}
}

func TestResponseCacheNilIsNoop(t *testing.T) {
	var rc *ResponseCache
	ctx := context.Background()

	rc.Set(ctx, KeyPosts, []byte(`x`))
	if _, ok := rc.Get(ctx, KeyPosts); ok {
		t.Error("nil cache should always miss")
	}
	rc.Invalidate(ctx, KeyPosts)
	rc.InvalidateAll(ctx)
}

func TestConnectValkey(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	host, port := mr.Host(), mr.Port()

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		mr.Close()
		t.Fatalf("ConnectValkey: %v", err)
	}
	client.Close()

	mr.Close()
	if _, err := ConnectValkey(host, port, ""); err == nil {
		t.Error("expected error when Valkey is down")
	}
}
