package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/krishnapranayangara/linksdisplay/internal/pkg/logger"
)

// MaintenanceMiddleware rejects mutations while the maintenance flag is
// set in Redis. Reads stay available so the collection keeps rendering.
func MaintenanceMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		// Short timeout so a slow Redis cannot stall every mutation
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		val, err := redisClient.Get(ctx, "system:maintenance").Result()
		if err != nil && err != redis.Nil {
			// Fail open to avoid an outage if Redis is down
			logger.Error("Failed to check maintenance mode", zap.Error(err))
			c.Next()
			return
		}

		if val == "true" {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Service under maintenance",
				"message": "Updates are temporarily disabled. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
