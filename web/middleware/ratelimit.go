// Package middleware contains the gin middlewares shared by the edusite routes.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/edusite/edusite/logger"
	"github.com/edusite/edusite/web/cache"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures a fixed-window rate limit.
type RateLimitConfig struct {
	// Name separates the counters of different limiters.
	Name     string
	Requests int
	Window   time.Duration
	KeyFunc  func(c *gin.Context) string
	// OnLimit writes the rejection; the chain is aborted afterwards.
	OnLimit func(c *gin.Context, retryAfter time.Duration)
}

// DefaultRateLimitConfig returns a per-client-IP limit of requests per minute.
func DefaultRateLimitConfig(name string, requests int) RateLimitConfig {
	return RateLimitConfig{
		Name:     name,
		Requests: requests,
		Window:   time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		OnLimit: func(c *gin.Context, _ time.Duration) {
			c.String(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		},
	}
}

// RateLimitKey is the counter key of client under the limiter called name.
func RateLimitKey(name string, client string) string {
	return "ratelimit:" + name + ":" + client
}

// RateLimitMiddleware counts requests in redis. Redis failures let the request through.
// A non-positive Requests disables the limiter.
func RateLimitMiddleware(client *cache.Client, config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.Requests <= 0 {
			c.Next()
			return
		}

		key := RateLimitKey(config.Name, config.KeyFunc(c))
		count, err := client.Hit(c.Request.Context(), key, config.Window)
		if err != nil {
			logger.Warning("Rate limit increment failed:", err)
			c.Next()
			return
		}

		if count > int64(config.Requests) {
			retryAfter, err := client.TTL(c.Request.Context(), key)
			if err != nil || retryAfter <= 0 {
				retryAfter = config.Window
			}
			logger.Warningf("Rate limit %q exceeded for %s (count: %d)", config.Name, config.KeyFunc(c), count)
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			config.OnLimit(c, retryAfter)
			c.Abort()
			return
		}
		c.Next()
	}
}
