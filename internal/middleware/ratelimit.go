package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seifhassan89/full-stack-user-curd/pkg/logger"
	"github.com/seifhassan89/full-stack-user-curd/pkg/redis"
	"github.com/seifhassan89/full-stack-user-curd/pkg/response"
)

// fixedWindowScript increments the counter for the current window and
// sets the TTL on first hit, atomically.
const fixedWindowScript = `
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`

// RateLimitConfig holds fixed-window rate limiter settings
type RateLimitConfig struct {
	Limit    int
	WindowMS int64
}

// RateLimit applies a per-IP fixed-window limit to the routes it wraps.
// Redis failures let the request through rather than blocking all traffic.
func RateLimit(client *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())

		result, err := client.EvalWithFallback(
			c.Request.Context(),
			"fixed_window",
			fixedWindowScript,
			[]string{key},
			cfg.WindowMS,
		).Int64()
		if err != nil {
			logger.Warn("Rate limiter unavailable",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		remaining := int64(cfg.Limit) - result
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if result > int64(cfg.Limit) {
			response.TooManyRequests(c, "Too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
