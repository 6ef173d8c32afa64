package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// slidingWindow tracks request timestamps inside a fixed window.
type slidingWindow struct {
	requests    []time.Time
	window      time.Duration
	maxRequests int
}

func (sw *slidingWindow) allow(now time.Time) bool {
	windowStart := now.Add(-sw.window)

	valid := sw.requests[:0]
	for _, t := range sw.requests {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	sw.requests = valid

	if len(sw.requests) < sw.maxRequests {
		sw.requests = append(sw.requests, now)
		return true
	}
	return false
}

func (sw *slidingWindow) idle(windowStart time.Time) bool {
	for _, t := range sw.requests {
		if t.After(windowStart) {
			return false
		}
	}
	return true
}

// RateLimiter enforces a per-client request quota within a sliding window,
// keyed by client IP. Exceeding the quota yields 429.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*slidingWindow
	window      time.Duration
	maxRequests int
	lastSweep   time.Time
}

// NewRateLimiter creates a limiter allowing maxRequests per window per client.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:     make(map[string]*slidingWindow),
		window:      window,
		maxRequests: maxRequests,
	}
}

// Allow records a request for the given client and reports whether it is
// within quota.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.sweep(now)

	sw, ok := rl.clients[client]
	if !ok {
		sw = &slidingWindow{window: rl.window, maxRequests: rl.maxRequests}
		rl.clients[client] = sw
	}
	return sw.allow(now)
}

// sweep drops clients whose whole window has expired, at most once per
// window, so the map stays bounded under IP churn.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	windowStart := now.Add(-rl.window)
	for client, sw := range rl.clients {
		if sw.idle(windowStart) {
			delete(rl.clients, client)
		}
	}
}

// ClientCount reports how many clients are currently tracked.
func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Middleware adapts the limiter to gin.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
