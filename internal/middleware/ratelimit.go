// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"blogpress/internal/metrics"
)

// idleTimeout is how long a client's bucket survives without requests.
const idleTimeout = 5 * time.Minute

// clientLimiter holds a token bucket and the last time it was used.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter provides per-IP token bucket rate limiting. Forwarding
// headers are ignored unless the peer is a trusted proxy.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
	trusted []netip.Prefix
	stopCh  chan struct{}
}

// NewRateLimiter creates a rate limiter that refills perSecond tokens per
// second up to burst. It starts a background goroutine to drop idle
// clients; call Stop to end it.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(perSecond),
		burst:   burst,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup(time.Now())
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// TrustProxies sets the networks whose X-Forwarded-For and X-Real-IP
// headers are believed. Call it before serving requests.
func (rl *RateLimiter) TrustProxies(prefixes ...netip.Prefix) {
	rl.trusted = append([]netip.Prefix(nil), prefixes...)
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// allow takes a token from the bucket of the given key.
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = time.Now()
	rl.mu.Unlock()

	return c.limiter.Allow()
}

// cleanup removes clients idle since before now-idleTimeout.
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > idleTimeout {
			delete(rl.clients, key)
		}
	}
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(rl.clientIP(r)) {
			metrics.RateLimitedTotal.Inc()
			retryAfter := 1
			if rl.rate > 0 && rl.rate < 1 {
				retryAfter = int(1 / float64(rl.rate))
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"message": "リクエストが多すぎます"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the address the bucket is keyed on. Without trusted
// proxies this is always the TCP peer. Behind a trusted proxy it is the
// rightmost X-Forwarded-For entry that is not itself a trusted proxy, then
// X-Real-IP.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	if !rl.isTrusted(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			if !rl.isTrusted(hop) {
				return hop
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return peer
}

func (rl *RateLimiter) isTrusted(ip string) bool {
	if len(rl.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// remoteHost strips the port from a RemoteAddr.
func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
