package memory

import (
	"context"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// CreateTx stages an audit entry in tx.
func (r *AuditRepository) CreateTx(_ context.Context, tx usecase.Tx, log *domain.AuditLog) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	entry := *log
	t.audit = append(t.audit, &entry)
	return nil
}

// List returns audit entries matching filter, newest first.
func (r *AuditRepository) List(_ context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	logs := make([]*domain.AuditLog, 0)
	for i := len(r.store.audit) - 1; i >= 0; i-- {
		l := r.store.audit[i]
		if filter.ActorID != "" && l.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		if filter.StartDate != nil && l.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && l.CreatedAt.After(*filter.EndDate) {
			continue
		}
		c := *l
		logs = append(logs, &c)
	}
	return page(logs, filter.Limit, filter.Offset), nil
}
