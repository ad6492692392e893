package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	visitorIdle   = 10 * time.Minute
	sweepInterval = time.Minute
)

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimitPerIP gives every client IP its own token bucket. Idle buckets
// are swept so the map does not grow without bound.
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		visitors  = make(map[string]*visitor)
		lastSweep = time.Now()
	)
	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()

		mu.Lock()
		if now.Sub(lastSweep) > sweepInterval {
			for k, v := range visitors {
				if now.Sub(v.seen) > visitorIdle {
					delete(visitors, k)
				}
			}
			lastSweep = now
		}
		v, ok := visitors[ip]
		if !ok {
			v = &visitor{lim: rate.NewLimiter(rps, burst)}
			visitors[ip] = v
		}
		v.seen = now
		allowed := v.lim.Allow()
		mu.Unlock()

		if !allowed {
			abort(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
