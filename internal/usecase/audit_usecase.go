package usecase

import (
	"context"

	"github.com/iho/walletledger/internal/domain"
)

// AuditUseCase exposes the audit trail to admins.
type AuditUseCase struct {
	auditRepo AuditRepository
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// List returns audit entries matching filter, newest first.
func (uc *AuditUseCase) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.auditRepo.List(ctx, filter)
}
