package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"peerchat-service/internal/config"
)

// NewRedis connects the Redis client used by the external-bus broker
// backend. Returns nil when no URL is configured; the in-memory broker is
// used in that case.
func NewRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
