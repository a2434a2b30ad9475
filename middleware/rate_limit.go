package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Per-IP token buckets: 10 requests per second with a burst of 20, idle
// entries evicted after a few minutes so the map cannot grow unbounded.
const (
	rateLimitPerSecond = 10
	rateLimitBurst     = 20
	limiterIdleTTL     = 3 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	limitersMu sync.Mutex
	limiters   = make(map[string]*ipLimiter)
)

func limiterFor(ip string) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	entry, ok := limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rateLimitPerSecond, rateLimitBurst)}
		limiters[ip] = entry
	}
	entry.lastSeen = time.Now()

	// Opportunistic sweep; cheap at this map size.
	for key, other := range limiters {
		if time.Since(other.lastSeen) > limiterIdleTTL {
			delete(limiters, key)
		}
	}

	return entry.limiter
}

// RateLimitMiddleware limits the number of requests per client IP.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
