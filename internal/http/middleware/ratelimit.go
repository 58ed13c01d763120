// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file throttles feedback submissions. Every submission triggers three
// generator calls, so the limiter is what keeps a single client from running
// up model cost. Buckets live in process memory, keyed per client, and idle
// buckets are swept periodically.
//
// Replays flagged by IdempotencyValidator skip the limiter: they are served
// from storage and never reach the generator.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc selects the bucket a request draws from.
type keyFunc func(*gin.Context) string

// KeyByClient gives every client its own bucket, keyed by ClientID, e.g.
// "ip:203.0.113.7".
func KeyByClient() keyFunc {
	return ClientID
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-key token bucket limiter. Safe for concurrent use.
type RateLimiter struct {
	limit rate.Limit
	burst int
	keyFn keyFunc
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	idleTTL   time.Duration
	lastSweep time.Time
}

// NewRateLimiter builds a limiter refilling rps tokens per second up to burst
// (values below 1 become 1).
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:     rate.Limit(rps),
		burst:     burst,
		keyFn:     keyFn,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
		idleTTL:   10 * time.Minute,
		lastSweep: time.Now(),
	}
}

// limiterFor returns the bucket for key, creating it on first use. Idle
// buckets are dropped at most once per idleTTL, before key is touched, so a
// stale bucket for key is replaced with a full one.
func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	b, found := rl.buckets[key]
	if !found {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim
}

// size reports the number of live buckets.
func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay.
func IsRateBypass(c *gin.Context) bool {
	b, _ := c.Get(ctxKeyRateBypass)
	v, _ := b.(bool)
	return v
}

// Handler enforces the limit. A rejected request gets 429 rate_limited with
// Retry-After set to the whole seconds until a token is available.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		res := rl.limiterFor(rl.keyFn(c)).ReserveN(rl.now(), 1)
		if res.OK() {
			wait := res.DelayFrom(rl.now())
			if wait == 0 {
				c.Next()
				return
			}
			res.Cancel()
			c.Header("Retry-After", retryAfter(wait))
		} else {
			// Zero refill rate: the bucket never recovers.
			c.Header("Retry-After", "60")
		}

		countRejection(RejectRateLimited)
		abortJSON(c, http.StatusTooManyRequests, RejectRateLimited, "too many submissions, retry later")
	}
}

func retryAfter(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
