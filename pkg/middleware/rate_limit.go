package middleware

import (
	"fmt"
	"net/http"
	"time"

	"geekplay/pkg/httperr"
	"geekplay/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// incrWindowScript increments KEYS[1] and gives it a TTL of ARGV[1] ms when
// it has none, so a key never outlives its window even if an earlier
// request failed to set the expiry.
var incrWindowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RateLimitMiddleware is a fixed-window counter per route and caller. The
// caller is the authenticated user when present, otherwise the client IP.
// A nil client disables limiting; Redis errors fail open.
func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || limit <= 0 {
			c.Next()
			return
		}

		caller := c.ClientIP()
		if userID, ok := UserID(c); ok {
			caller = fmt.Sprintf("user:%d", userID)
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), caller)

		ctx := c.Request.Context()
		count, err := incrWindowScript.Run(ctx, redisClient, []string{key}, window.Milliseconds()).Int64()
		if err != nil {
			log.Warn("[RATE LIMIT] Redis unavailable, allowing request: %v", err)
			c.Next()
			return
		}

		if count > int64(limit) {
			httperr.Abort(c, http.StatusTooManyRequests, httperr.CodeRateLimited, "Rate limit exceeded")
			return
		}

		c.Next()
	}
}
