package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/iho/walletledger/internal/infrastructure/metrics"
)

// observe counts a Redis call and its failure. redis.Nil is a miss, not a failure.
func observe(m *metrics.Metrics, operation string, err error) {
	if m == nil {
		return
	}
	m.RedisOperations.WithLabelValues(operation).Inc()
	if err != nil && !errors.Is(err, redis.Nil) {
		m.RedisErrors.WithLabelValues(operation).Inc()
	}
}
