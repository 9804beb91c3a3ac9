package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"trend-orchestrator/internal/domain"
)

// RedisCache shares pipeline results across replicas. Cache failures are
// logged and reported as misses or failed stores; they never propagate to
// the pipeline.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCache connects using a redis:// URL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string, logger *slog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisCache{client: client, logger: logger}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.PipelineResult, bool) {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, false
	}
	var result domain.PipelineResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.Warn("dropping corrupt cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		c.client.Del(ctx, key)
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Put(ctx context.Context, key string, value *domain.PipelineResult, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = domain.DefaultCacheTTL
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Warn("redis set failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ domain.ResultCache = (*RedisCache)(nil)
