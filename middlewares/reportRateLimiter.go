package middlewares

import (
	"net/http"
	"time"

	"civicwatch/config"

	"github.com/gin-gonic/gin"
)

// ReportRateLimiter caps how often a single client IP may hit the public
// mutation endpoints (report submission, spam flagging). Counts live in Redis
// with a TTL window.
func ReportRateLimiter(keyPrefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.RedisClient == nil {
			// Redis not configured; run unthrottled.
			c.Next()
			return
		}

		ctx := config.Ctx
		clientKey := keyPrefix + ":" + c.ClientIP()

		count, err := config.RedisClient.Incr(ctx, clientKey).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error incrementing count"})
			c.Abort()
			return
		}

		// Set TTL only for the first increment (when count = 1)
		if count == 1 {
			if err := config.RedisClient.Expire(ctx, clientKey, window).Err(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error setting TTL"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := config.RedisClient.TTL(ctx, clientKey).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
