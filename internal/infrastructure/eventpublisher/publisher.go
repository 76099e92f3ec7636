package eventpublisher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/metrics"
	"github.com/iho/walletledger/internal/usecase"
)

// EventPublisher relays events from the outbox to a Publisher.
type EventPublisher struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	logger     zerolog.Logger
	metrics    *metrics.Metrics
	batchSize  int
	interval   time.Duration
	retention  time.Duration
	now        func() time.Time
}

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics
	BatchSize  int           // Number of events to fetch per batch
	Interval   time.Duration // Polling interval
	Retention  time.Duration // How long published events are kept; zero keeps them forever
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}

	return &EventPublisher{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger.With().Str("component", "event_publisher").Logger(),
		metrics:    cfg.Metrics,
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
		retention:  cfg.Retention,
		now:        time.Now,
	}
}

// Start begins the event publishing worker.
// It runs continuously until the context is cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("batch_size", ep.batchSize).
		Dur("interval", ep.interval).
		Msg("event publisher started")

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	// Process immediately on start
	ep.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			ep.tick(ctx)
		}
	}
}

func (ep *EventPublisher) tick(ctx context.Context) {
	if err := ep.processEvents(ctx); err != nil {
		ep.logger.Error().Err(err).Msg("error processing events")
	}
	if err := ep.purge(ctx); err != nil {
		ep.logger.Error().Err(err).Msg("error purging published events")
	}
}

// processEvents fetches and publishes a batch of unpublished events.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	ep.logger.Debug().Int("count", len(events)).Msg("processing events")

	// Aggregates with a failed event are held back for the rest of the
	// batch so their events never go out of order.
	blocked := make(map[string]struct{})

	for _, event := range events {
		aggregate := event.AggregateType + ":" + event.AggregateID
		if _, ok := blocked[aggregate]; ok {
			continue
		}

		if err := ep.publisher.Publish(ctx, event); err != nil {
			ep.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Str("aggregate_id", event.AggregateID).
				Msg("failed to publish event")
			if ep.metrics != nil {
				ep.metrics.OutboxErrors.Inc()
			}
			blocked[aggregate] = struct{}{}
			continue
		}

		if ep.metrics != nil {
			ep.metrics.OutboxPublished.Inc()
		}

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, ep.now()); err != nil {
			// The event goes out again on the next tick; consumers dedupe by event id.
			ep.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Msg("failed to mark event as published")
		}
	}

	return nil
}

// purge drops published events older than the retention window.
func (ep *EventPublisher) purge(ctx context.Context) error {
	if ep.retention <= 0 {
		return nil
	}
	return ep.outboxRepo.DeletePublished(ctx, ep.now().Add(-ep.retention))
}
