package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/walletledger/internal/infrastructure/metrics"
	"github.com/iho/walletledger/internal/usecase"
)

// Cache implements usecase.Cache using Redis.
type Cache struct {
	client  redis.UniversalClient
	prefix  string
	metrics *metrics.Metrics
}

// NewCache creates a new Cache. m may be nil.
func NewCache(client redis.UniversalClient, m *metrics.Metrics) *Cache {
	return &Cache{
		client:  client,
		prefix:  "cache:",
		metrics: m,
	}
}

// Get retrieves a value by key. A missing key returns usecase.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	observe(c.metrics, "cache_get", err)
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrCacheMiss
	}
	return val, err
}

// Set stores a value with TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+key, value, ttl).Err()
	observe(c.metrics, "cache_set", err)
	return err
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, c.prefix+key).Err()
	observe(c.metrics, "cache_delete", err)
	return err
}
