package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/krishnapranayangara/linksdisplay/internal/api/handlers"
	"github.com/krishnapranayangara/linksdisplay/internal/api/middleware"
	"github.com/krishnapranayangara/linksdisplay/internal/config"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/cache"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/logger"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/ratelimit"
	"github.com/krishnapranayangara/linksdisplay/internal/repository"
	"github.com/krishnapranayangara/linksdisplay/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	logger.Init(cfg.Env)
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		logger.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	cancel()

	// Redis backs the cache, rate limiter and maintenance flag. The
	// server still runs without it, those features just degrade.
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, caching and rate limiting disabled", zap.Error(err))
		redisClient = nil
	}
	pingCancel()

	// Repositories
	errorLogRepo := repository.NewErrorLogRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Services
	appCache := cache.New(redisClient, cfg.CacheTTL)
	errorLogService := service.NewErrorLogService(errorLogRepo, cfg.AuditQueueSize)
	linkService := service.NewLinkService(linkRepo, categoryRepo, appCache)
	categoryService := service.NewCategoryService(categoryRepo, appCache)

	// Handlers
	errorLogHandler := handlers.NewErrorLogHandler(errorLogService)
	linkHandler := handlers.NewLinkHandler(linkService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	healthHandler := handlers.NewHealthHandler(db, redisClient, cfg.Env)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.LoggerMiddleware())
	// Audit sits before rate limiting and maintenance so their
	// rejections are recorded too
	router.Use(middleware.AuditMiddleware(errorLogService))
	if redisClient != nil {
		router.Use(middleware.RateLimitMiddleware(ratelimit.NewRateLimiter(redisClient)))
		router.Use(middleware.MaintenanceMiddleware(redisClient))
	}

	registerRoutes(router, linkHandler, categoryHandler, errorLogHandler, healthHandler)

	stopRetention := make(chan struct{})
	if cfg.AuditRetentionDays > 0 {
		go runRetentionSweep(errorLogService, cfg.AuditRetentionDays, stopRetention)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	logger.Info("Server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	close(stopRetention)

	// Flush queued audit records before the process exits
	errorLogService.Close()

	logger.Info("Server exited")
}

// runRetentionSweep deletes audit records older than the configured
// retention window once a day until stop is closed.
func runRetentionSweep(errorLogService service.ErrorLogService, days int, stop <-chan struct{}) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deleted, err := errorLogService.CleanupOlderThan(days)
			if err != nil {
				logger.Error("Audit retention sweep failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				logger.Info("Audit retention sweep completed",
					zap.Int64("deleted", deleted),
					zap.Int("retention_days", days))
			}
		case <-stop:
			return
		}
	}
}

func registerRoutes(
	router *gin.Engine,
	linkHandler *handlers.LinkHandler,
	categoryHandler *handlers.CategoryHandler,
	errorLogHandler *handlers.ErrorLogHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ping", healthHandler.Ping)

		links := api.Group("/links")
		{
			links.GET("", linkHandler.GetLinks)
			links.POST("", linkHandler.CreateLink)
			links.GET("/search", linkHandler.SearchLinks)
			links.GET("/pinned", linkHandler.GetPinnedLinks)
			links.GET("/stats", linkHandler.GetLinkStats)
			links.GET("/:id", linkHandler.GetLink)
			links.PUT("/:id", linkHandler.UpdateLink)
			links.DELETE("/:id", linkHandler.DeleteLink)
			links.PATCH("/:id/pin", linkHandler.TogglePin)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("/stats", categoryHandler.GetCategoryStats)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		errorLogs := api.Group("/errors")
		{
			errorLogs.GET("", errorLogHandler.ListErrors)
			errorLogs.GET("/statistics", errorLogHandler.GetStatistics)
			errorLogs.GET("/export", errorLogHandler.ExportErrors)
			errorLogs.DELETE("/cleanup", errorLogHandler.CleanupErrors)
			errorLogs.GET("/:id", errorLogHandler.GetError)
		}
	}
}
