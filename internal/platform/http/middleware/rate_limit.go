package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter decides whether key may proceed.
type Limiter interface {
	Allow(key string) (allowed bool, retryAfter time.Duration)
}

// RateLimit rejects requests over the limit with 429 and a Retry-After header.
// Requests are keyed by client IP.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := limiter.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}
		slog.Warn("rate limit exceeded", "path", c.Request.URL.Path, "remote_ip", c.ClientIP())
		c.Header("Retry-After", retryAfterSeconds(retryAfter))
		c.String(http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
		c.Abort()
	}
}

func retryAfterSeconds(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}
