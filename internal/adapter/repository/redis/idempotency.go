package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/walletledger/internal/infrastructure/metrics"
	"github.com/iho/walletledger/internal/usecase"
)

// ProcessingMarker is stored under a key while the first request holding it
// is still running.
const ProcessingMarker = usecase.IdempotencyProcessingMarker

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client  redis.UniversalClient
	prefix  string
	metrics *metrics.Metrics
}

// NewIdempotencyStore creates a new IdempotencyStore. m may be nil.
func NewIdempotencyStore(client redis.UniversalClient, m *metrics.Metrics) *IdempotencyStore {
	return &IdempotencyStore{
		client:  client,
		prefix:  "idempotency:",
		metrics: m,
	}
}

// CheckAndSet claims key with response, or with ProcessingMarker when
// response is nil. When the key is already held it returns true and the
// stored value.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	var value any = ProcessingMarker
	if response != nil {
		value = response
	}

	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	observe(s.metrics, "idempotency_claim", err)
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	observe(s.metrics, "idempotency_get", err)
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, nil, err
	}

	return true, existing, nil
}

// Update updates an existing idempotency key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	err := s.client.Set(ctx, s.prefix+key, response, ttl).Err()
	observe(s.metrics, "idempotency_update", err)
	return err
}

// Release drops a claimed key so a failed request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	err := s.client.Del(ctx, s.prefix+key).Err()
	observe(s.metrics, "idempotency_release", err)
	return err
}
