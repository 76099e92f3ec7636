package postgres

import (
	"context"
	"time"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// NullOutboxRepository drops every event. It backs deployments that run
// with the outbox disabled.
type NullOutboxRepository struct{}

// NewNullOutboxRepository creates a new NullOutboxRepository.
func NewNullOutboxRepository() *NullOutboxRepository {
	return &NullOutboxRepository{}
}

func (r *NullOutboxRepository) Create(context.Context, usecase.Tx, *domain.OutboxEvent) error {
	return nil
}

func (r *NullOutboxRepository) GetUnpublished(context.Context, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (r *NullOutboxRepository) MarkPublished(context.Context, string, time.Time) error {
	return nil
}

func (r *NullOutboxRepository) GetByAggregate(context.Context, string, string, int, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (r *NullOutboxRepository) DeletePublished(context.Context, time.Time) error {
	return nil
}
