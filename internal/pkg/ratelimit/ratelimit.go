package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	client *redis.Client
}

type RateLimitConfig struct {
	Requests int           // Number of requests allowed
	Window   time.Duration // Time window
}

// Common rate limit configurations
var (
	// Read endpoints - generous limits
	GeneralRateLimit = RateLimitConfig{
		Requests: 100,
		Window:   time.Minute,
	}

	// Write endpoints - moderate limits
	MutationRateLimit = RateLimitConfig{
		Requests: 30,
		Window:   time.Minute,
	}
)

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{
		client: redisClient,
	}
}

// CheckLimit checks if the request is within rate limits
func (rl *RateLimiter) CheckLimit(ctx context.Context, key string, config RateLimitConfig) (bool, error) {
	info, err := rl.CheckLimitWithInfo(ctx, key, config)
	if err != nil {
		return false, err
	}
	return info.Allowed, nil
}

// CheckLimitWithInfo checks the rate limit and returns detailed info.
// Requests within the window are tracked in a redis sorted set whose
// scores are arrival timestamps.
func (rl *RateLimiter) CheckLimitWithInfo(ctx context.Context, key string, config RateLimitConfig) (*RateLimitInfo, error) {
	now := time.Now()
	windowStart := now.Add(-config.Window)

	pipe := rl.client.Pipeline()

	// Remove old entries outside the window
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixMilli()))

	// Count requests in the current window
	countCmd := pipe.ZCard(ctx, key)

	// Add current request
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})

	// Set expiration on the key
	pipe.Expire(ctx, key, config.Window+time.Minute)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := countCmd.Val()
	allowed := count < int64(config.Requests)

	info := &RateLimitInfo{
		Limit:     config.Requests,
		Remaining: config.Requests - int(count) - 1,
		Reset:     now.Add(config.Window),
		Allowed:   allowed,
	}

	if info.Remaining < 0 {
		info.Remaining = 0
	}

	if !allowed {
		info.RetryAfter = config.Window
	}

	return info, nil
}

type RateLimitInfo struct {
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	Reset      time.Time     `json:"reset"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
	Allowed    bool          `json:"allowed"`
}
