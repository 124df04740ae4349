package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const serviceVersion = "1.0.0"

type HealthHandler struct {
	db          *sql.DB
	redisClient *redis.Client
	env         string
	startedAt   time.Time
}

func NewHealthHandler(db *sql.DB, redisClient *redis.Client, env string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		env:         env,
		startedAt:   time.Now(),
	}
}

// Health godoc
// @Summary Service health
// @Description Reports database and cache connectivity
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbStatus := "connected"
	if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	// Cache is optional, its state never fails the check
	cacheStatus := "disabled"
	if h.redisClient != nil {
		cacheStatus = "connected"
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			cacheStatus = "unavailable"
		}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":      overall,
		"database":    dbStatus,
		"cache":       cacheStatus,
		"environment": h.env,
		"version":     serviceVersion,
		"uptime":      time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ping godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
