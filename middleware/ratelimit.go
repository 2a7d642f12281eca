// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/metrics"
)

// maxTrackedClients bounds the limiter map; idle entries are pruned past it.
const maxTrackedClients = 10000

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterRegistry keeps one token bucket per client key.
type RateLimiterRegistry struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	perMin   int
	proxied  bool
	idle     time.Duration
	now      func() time.Time
}

// NewRateLimiterRegistry allows perMinute requests per key per minute with a
// burst of perMinute. Values below 1 are raised to 1. With trustProxy set,
// clients are keyed by their forwarded address instead of the peer address.
func NewRateLimiterRegistry(perMinute int, trustProxy bool) *RateLimiterRegistry {
	if perMinute < 1 {
		perMinute = 1
	}
	return &RateLimiterRegistry{
		limiters: make(map[string]*limiterEntry),
		perMin:   perMinute,
		proxied:  trustProxy,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// GetOrCreate retrieves the limiter for key, creating it on first use.
func (r *RateLimiterRegistry) GetOrCreate(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.limiters[key]; ok {
		e.lastSeen = now
		return e.limiter
	}

	if len(r.limiters) >= maxTrackedClients {
		r.pruneLocked(now)
	}

	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(r.perMin)), r.perMin)
	r.limiters[key] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// Len reports the number of tracked keys.
func (r *RateLimiterRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *RateLimiterRegistry) pruneLocked(now time.Time) {
	for key, e := range r.limiters {
		if now.Sub(e.lastSeen) > r.idle {
			delete(r.limiters, key)
		}
	}
}

// RateLimit rejects requests with 429 once the client IP exhausts its bucket
func RateLimit(limiters *RateLimiterRegistry, m *metrics.Metrics, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := GetClientIP(r, limiters.proxied)
		if !limiters.GetOrCreate(ip).Allow() {
			slog.Warn("rate limit exceeded",
				"path", r.URL.Path,
				"ip_hash", auth.HashIP(ip, "rate-limit"),
				"request_id", RequestID(r.Context()),
			)
			if m != nil {
				m.RateLimited.Inc()
			}
			w.Header().Set("Retry-After", "60")
			ErrorResponse(w, http.StatusTooManyRequests, "Too many attempts, please try again later")
			return
		}
		next(w, r)
	}
}
