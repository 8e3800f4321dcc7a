package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"server/internal/infra"
)

// TTL for cached catalog responses — avatars, voices, and credit balance
// rarely change.
const TTL = 3600 * time.Second

// CatalogCache wraps a Redis client that may be nil: if Redis is
// unreachable at startup, NewCatalogCache logs a warning and returns a
// cache that always misses instead of failing the process.
type CatalogCache struct {
	client *redis.Client
	logger infra.Logger
}

// NewCatalogCache pings addr and returns a degraded (nil-client) cache on
// failure rather than an error, since catalog caching is a performance
// optimization, not a correctness requirement.
func NewCatalogCache(addr string, logger infra.Logger) *CatalogCache {
	if addr == "" {
		return &CatalogCache{logger: logger}
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("catalog cache: redis unreachable, continuing without cache")
		return &CatalogCache{logger: logger}
	}
	return &CatalogCache{client: client, logger: logger}
}

func (c *CatalogCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (c *CatalogCache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, TTL).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("catalog cache: set failed")
	}
}
