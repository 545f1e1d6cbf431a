package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	defaultLimiterTTL      = 10 * time.Minute
	defaultCleanupInterval = time.Minute
)

// IPRateLimiter keeps one token bucket per client IP. Buckets of IPs idle for
// longer than the ttl are dropped by Cleanup.
type IPRateLimiter struct {
	rps      int
	ttl      time.Duration
	now      func() time.Time
	limiters *sync.Map // map[string]*ipLimiter
}

type ipLimiter struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// NewIPRateLimiter allows rps requests per second per IP with a burst of
// twice that.
func NewIPRateLimiter(rps int, ttl time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		rps:      rps,
		ttl:      ttl,
		now:      time.Now,
		limiters: &sync.Map{},
	}
}

// Allow reports whether ip may make a request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	now := l.now()
	value, _ := l.limiters.LoadOrStore(ip, &ipLimiter{
		limiter:  rate.NewLimiter(rate.Limit(l.rps), l.rps*2),
		lastSeen: now,
	})
	entry := value.(*ipLimiter)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// Cleanup drops the buckets of IPs not seen within the ttl and returns how
// many were dropped.
func (l *IPRateLimiter) Cleanup() int {
	now := l.now()
	removed := 0
	l.limiters.Range(func(key, value interface{}) bool {
		entry := value.(*ipLimiter)
		entry.mu.Lock()
		lastSeen := entry.lastSeen
		entry.mu.Unlock()

		if now.Sub(lastSeen) > l.ttl {
			l.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Len returns the number of tracked IPs.
func (l *IPRateLimiter) Len() int {
	n := 0
	l.limiters.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Run calls Cleanup every interval until ctx is done.
func (l *IPRateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-ctx.Done():
			return
		}
	}
}

// Middleware rejects requests of IPs over their limit with 429.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Rate limit exceeded",
				Code:  "RATE_LIMIT",
			})
			return
		}

		c.Next()
	}
}
