package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spacetime-server/internal/shared/config"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

// Connect returns a nil client when redis is disabled; callers treat a nil
// client as "no cache".
func Connect(ctx context.Context) (*Client, error) {
	cfg := config.GlobalConfig
	logger := slog.With("component", "redis", "operation", "connect")

	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, ancestor lookups will not be cached")
		return nil, nil
	}

	var rdb *redis.Client

	if cfg.Redis.URL != "" {
		logger.Debug("Connecting to Redis using URL")
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("Failed to parse Redis URL", "error", err)
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		rdb = redis.NewClient(opts)
	} else {
		logger.Debug("Connecting to Redis using host/port",
			"host", cfg.Redis.Host,
			"port", cfg.Redis.Port)

		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping Redis", "error", err)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")

	return &Client{rdb}, nil
}

// Ping reports an error when the client is configured but unreachable. A
// nil client is healthy.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
