package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings, sourced from environment variables.
type Config struct {
	Env  string
	Port string

	DatabaseURL string
	RedisAddr   string
	RedisDB     int

	CORSOrigins []string

	// Audit log pipeline. Retention days of 0 disables the
	// background cleanup sweep.
	AuditQueueSize     int
	AuditRetentionDays int

	CacheTTL time.Duration
}

// Load reads configuration from the environment. Missing values fall
// back to development defaults; DATABASE_URL is assembled from DB_*
// variables when not set directly.
func Load() *Config {
	cfg := &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		CORSOrigins:        strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		AuditQueueSize:     getEnvInt("AUDIT_QUEUE_SIZE", 1024),
		AuditRetentionDays: getEnvInt("AUDIT_RETENTION_DAYS", 30),
		CacheTTL:           time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = buildDatabaseURL()
	}

	return cfg
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func buildDatabaseURL() string {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "linksdisplay")
	name := getEnv("DB_NAME", "linksdisplay")
	password := os.Getenv("DB_PASSWORD")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, url.QueryEscape(password), host, port, name)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
