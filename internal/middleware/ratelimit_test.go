// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strconv"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	// A near-zero refill rate makes the burst the whole budget.
	rl := NewRateLimiter(0.001, 3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if rl.allow("test-ip") {
		t.Error("4th request should be rate-limited")
	}

	if !rl.allow("other-ip") {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(20, 1)
	defer rl.Stop()

	if !rl.allow("test-ip") {
		t.Fatal("first request should be allowed")
	}
	if rl.allow("test-ip") {
		t.Error("should be rate-limited before refill")
	}

	// 20 tokens per second refills one token every 50ms.
	time.Sleep(120 * time.Millisecond)

	if !rl.allow("test-ip") {
		t.Error("should be allowed after refill")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(0.5, 2)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/posts/1/like", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i+1, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/posts/1/like", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("got status %d, want 429", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After: got %q, want 2", got)
	}
}

func TestClientIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name       string
		trusted    []netip.Prefix
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{name: "remote addr only", remoteAddr: "192.168.1.1:1234", want: "192.168.1.1"},
		{name: "remote addr no port", remoteAddr: "192.168.1.1", want: "192.168.1.1"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "forwarded header without trusted proxies", xff: "203.0.113.9", remoteAddr: "192.168.1.1:1234", want: "192.168.1.1"},
		{name: "real ip without trusted proxies", xri: "203.0.113.9", remoteAddr: "192.168.1.1:1234", want: "192.168.1.1"},
		{name: "forwarded header from untrusted peer", trusted: proxies, xff: "203.0.113.9", remoteAddr: "192.168.1.1:1234", want: "192.168.1.1"},
		{name: "trusted proxy single hop", trusted: proxies, xff: "203.0.113.9", remoteAddr: "10.0.0.5:1234", want: "203.0.113.9"},
		{name: "trusted proxy ignores spoofed leftmost entry", trusted: proxies, xff: "1.2.3.4, 203.0.113.9, 10.0.0.7", remoteAddr: "10.0.0.5:1234", want: "203.0.113.9"},
		{name: "trusted proxy real ip", trusted: proxies, xri: "203.0.113.9", remoteAddr: "10.0.0.5:1234", want: "203.0.113.9"},
		{name: "trusted proxy without headers", trusted: proxies, remoteAddr: "10.0.0.5:1234", want: "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(1, 1)
			defer rl.Stop()
			rl.TrustProxies(tt.trusted...)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := rl.clientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterMiddlewareIgnoresSpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/posts/1/like", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i+1))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests || codes[2] != http.StatusTooManyRequests {
		t.Errorf("got statuses %v, want [200 429 429]", codes)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, 5)
	defer rl.Stop()

	rl.allow("ip-old")
	rl.allow("ip-fresh")

	rl.mu.Lock()
	rl.clients["ip-old"].lastSeen = time.Now().Add(-2 * idleTimeout)
	rl.mu.Unlock()

	rl.cleanup(time.Now())

	rl.mu.Lock()
	_, oldExists := rl.clients["ip-old"]
	_, freshExists := rl.clients["ip-fresh"]
	rl.mu.Unlock()

	if oldExists {
		t.Error("ip-old should have been cleaned up")
	}
	if !freshExists {
		t.Error("ip-fresh should still exist")
	}
}
