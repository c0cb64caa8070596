package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/facture/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window counter per client key. A render request
// can hold a Chromium process for up to 30 seconds, so the API bounds how
// many requests a single client may start per window.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	used    int
	resetAt time.Time
}

// NewRateLimiter allows limit requests per window for each key.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		window:    window,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

// take consumes one slot for key. It reports whether the request may
// proceed and how many slots remain in the current window.
func (rl *RateLimiter) take(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.sweep(now)

	b := rl.buckets[key]
	if b == nil || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(rl.window)}
		rl.buckets[key] = b
	}
	if b.used >= rl.limit {
		return false, 0
	}
	b.used++
	return true, rl.limit - b.used
}

// sweep drops expired buckets. It runs inline under the lock at most once
// per window, so no background goroutine is needed.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	for key, b := range rl.buckets {
		if now.After(b.resetAt) {
			delete(rl.buckets, key)
		}
	}
	rl.lastSweep = now
}

// RateLimit enforces limiter per client IP.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	limitValue := strconv.Itoa(limiter.limit)
	retryAfter := strconv.Itoa(int(limiter.window.Seconds()))

	return func(c *gin.Context) {
		ok, remaining := limiter.take(c.ClientIP())
		c.Header("X-RateLimit-Limit", limitValue)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrCodeRateLimited, "Too many requests"))
			return
		}
		c.Next()
	}
}
