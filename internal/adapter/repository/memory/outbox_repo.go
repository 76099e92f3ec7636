package memory

import (
	"context"
	"time"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

// Create stages an event in tx.
func (r *OutboxRepository) Create(_ context.Context, tx usecase.Tx, event *domain.OutboxEvent) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	e := *event
	t.events = append(t.events, &e)
	return nil
}

// GetUnpublished returns the oldest unpublished events.
func (r *OutboxRepository) GetUnpublished(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]*domain.OutboxEvent, 0)
	for _, e := range r.store.events {
		if e.Published {
			continue
		}
		c := *e
		events = append(events, &c)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(_ context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, e := range r.store.events {
		if e.ID == id {
			at := publishedAt
			e.Published = true
			e.PublishedAt = &at
			return nil
		}
	}
	return nil
}

// GetByAggregate returns the events of one aggregate, oldest first.
func (r *OutboxRepository) GetByAggregate(_ context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]*domain.OutboxEvent, 0)
	for _, e := range r.store.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			c := *e
			events = append(events, &c)
		}
	}
	return page(events, limit, offset), nil
}

// DeletePublished drops published events older than before.
func (r *OutboxRepository) DeletePublished(_ context.Context, before time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.events[:0]
	for _, e := range r.store.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	r.store.events = kept
	return nil
}
