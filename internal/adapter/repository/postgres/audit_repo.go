package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/postgres/generated"
	"github.com/iho/walletledger/internal/usecase"
)

// AuditRepository implements audit log persistence
type AuditRepository struct {
	queries *generated.Queries
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{queries: generated.New(db)}
}

// CreateTx inserts an audit log entry within tx, so the entry commits or
// rolls back with the change it records.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Tx, log *domain.AuditLog) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	before, err := marshalState(log.BeforeState)
	if err != nil {
		return err
	}
	after, err := marshalState(log.AfterState)
	if err != nil {
		return err
	}

	return queries.CreateAuditLog(ctx, generated.CreateAuditLogParams{
		ID:           log.ID,
		ActorID:      log.ActorID,
		Action:       log.Action,
		ResourceType: log.ResourceType,
		ResourceID:   log.ResourceID,
		RequestID:    log.RequestID,
		BeforeState:  before,
		AfterState:   after,
		Status:       log.Status,
		ErrorMessage: log.ErrorMessage,
		CreatedAt:    timeToPgTimestamptz(log.CreatedAt),
	})
}

// List retrieves audit logs with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	rows, err := r.queries.ListAuditLogs(ctx, generated.ListAuditLogsParams{
		ActorID:      filter.ActorID,
		Action:       filter.Action,
		ResourceType: filter.ResourceType,
		ResourceID:   filter.ResourceID,
		StartDate:    optionalTimestamptz(filter.StartDate),
		EndDate:      optionalTimestamptz(filter.EndDate),
		Limit:        int32(filter.Limit),
		Offset:       int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	logs := make([]*domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, rowToAuditLog(row))
	}

	return logs, nil
}

func marshalState(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}

func rowToAuditLog(row generated.AuditLog) *domain.AuditLog {
	log := &domain.AuditLog{
		ID:           row.ID,
		ActorID:      row.ActorID,
		Action:       row.Action,
		ResourceType: row.ResourceType,
		ResourceID:   row.ResourceID,
		RequestID:    row.RequestID,
		Status:       row.Status,
		ErrorMessage: row.ErrorMessage,
		CreatedAt:    row.CreatedAt.Time,
	}

	if row.BeforeState != nil {
		_ = json.Unmarshal(row.BeforeState, &log.BeforeState)
	}
	if row.AfterState != nil {
		_ = json.Unmarshal(row.AfterState, &log.AfterState)
	}

	return log
}

