package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"trend-orchestrator/internal/domain"
)

// MemoryCache is the default single-process result cache, backed by an
// expiring LRU. Entries expire at the TTL fixed at construction; a Put
// requesting a different ttl still stores the entry but logs the
// divergence. Values are stored as JSON so both backends share one
// representation.
type MemoryCache struct {
	lru    *expirable.LRU[string, string]
	ttl    time.Duration
	logger *slog.Logger
}

// NewMemoryCache builds a cache holding at most size entries, each expiring
// after ttl.
func NewMemoryCache(size int, ttl time.Duration, logger *slog.Logger) *MemoryCache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = domain.DefaultCacheTTL
	}
	return &MemoryCache{
		lru:    expirable.NewLRU[string, string](size, nil, ttl),
		ttl:    ttl,
		logger: logger,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*domain.PipelineResult, bool) {
	raw, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	var result domain.PipelineResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.Warn("dropping corrupt cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		c.lru.Remove(key)
		return nil, false
	}
	return &result, true
}

func (c *MemoryCache) Put(_ context.Context, key string, value *domain.PipelineResult, ttl time.Duration) bool {
	if ttl > 0 && ttl != c.ttl {
		c.logger.Warn("memory cache applies its construction TTL",
			slog.Duration("requested", ttl),
			slog.Duration("applied", c.ttl))
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	c.lru.Add(key, string(raw))
	return true
}

var _ domain.ResultCache = (*MemoryCache)(nil)
