package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/walletledger/internal/domain"
)

// RedisStreamPublisher appends events to a Redis stream.
type RedisStreamPublisher struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

// NewRedisStreamPublisher creates a publisher writing to stream. A positive
// maxLen caps the stream approximately.
func NewRedisStreamPublisher(client redis.UniversalClient, stream string, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

// Publish adds the event to the stream.
func (p *RedisStreamPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_id":       event.ID,
			"event_type":     event.EventType,
			"aggregate_type": event.AggregateType,
			"aggregate_id":   event.AggregateID,
			"created_at":     event.CreatedAt.UTC().Format(time.RFC3339Nano),
			"payload":        string(payload),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	return p.client.XAdd(ctx, args).Err()
}
