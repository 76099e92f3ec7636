package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// ClientOption tunes the parsed connection options.
type ClientOption func(*redis.Options)

// WithPoolSize caps the number of pooled connections.
func WithPoolSize(n int) ClientOption {
	return func(o *redis.Options) {
		if n > 0 {
			o.PoolSize = n
		}
	}
}

// WithTimeouts sets dial, read and write timeouts.
func WithTimeouts(dial, rw time.Duration) ClientOption {
	return func(o *redis.Options) {
		if dial > 0 {
			o.DialTimeout = dial
		}
		if rw > 0 {
			o.ReadTimeout = rw
			o.WriteTimeout = rw
		}
	}
}

// NewClient connects to redisURL and verifies the connection with a ping.
// The returned client backs the idempotency store, the reconciliation cache
// and the stream event sink.
func NewClient(ctx context.Context, redisURL string, opts ...ClientOption) (*redis.Client, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	for _, opt := range opts {
		opt(parsed)
	}

	client := redis.NewClient(parsed)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", parsed.Addr, err)
	}

	return client, nil
}
