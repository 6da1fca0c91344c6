package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saddleworks/stablecare-backend/internal/clients/redis"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

// IntakeRateLimit throttles the public intake form per client IP. It
// fails open: if Redis is down the submission goes through, because a
// lost service request costs more than a burst of spam.
func IntakeRateLimit(log *logger.Logger, limiter redis.RateLimiter) gin.HandlerFunc {
	mwLog := log.With("middleware", "IntakeRateLimit")
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		ok, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			mwLog.Warn("Rate limit check failed, allowing request", "error", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"message": "too many requests, try again shortly", "code": "rate_limited"},
			})
			return
		}
		c.Next()
	}
}
