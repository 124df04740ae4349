package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/krishnapranayangara/linksdisplay/internal/pkg/logger"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/ratelimit"
)

// RateLimitMiddleware applies rate limiting based on IP address and endpoint
func RateLimitMiddleware(limiter *ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		clientIP := c.ClientIP()

		config := getRateLimitConfig(c.Request.Method)
		key := fmt.Sprintf("ratelimit:%s:%s", clientIP, c.FullPath())

		info, err := limiter.CheckLimitWithInfo(ctx, key, config)
		if err != nil {
			// Continue on error (fail open)
			logger.Error("Rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", info.Reset.Unix()))

		if !info.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))

			logger.Warn("Rate limit exceeded",
				zap.String("ip", clientIP),
				zap.String("path", c.FullPath()),
				zap.Int("limit", info.Limit),
			)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"limit":       info.Limit,
				"retry_after": fmt.Sprintf("%d seconds", int(info.RetryAfter.Seconds())),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitConfig returns the appropriate rate limit for the request.
// Mutations get a tighter budget than reads.
func getRateLimitConfig(method string) ratelimit.RateLimitConfig {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return ratelimit.MutationRateLimit
	default:
		return ratelimit.GeneralRateLimit
	}
}
