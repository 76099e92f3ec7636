package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
)

// AuditService defines the behavior needed by AuditHandler.
type AuditService interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AuditHandler serves the audit trail.
type AuditHandler struct {
	audit AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List returns audit entries matching the query filters, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AuditFilter{
		ActorID:      q.Get("actor_id"),
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Limit:        parseIntQuery(r, "limit", defaultQueueLimit),
		Offset:       parseIntQuery(r, "offset", 0),
	}

	var err error
	if filter.StartDate, err = parseTimeQuery(r, "start_date"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err.Error())
		return
	}
	if filter.EndDate, err = parseTimeQuery(r, "end_date"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err.Error())
		return
	}

	logs, err := h.audit.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, "failed to list audit logs", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": dto.AuditLogsFromDomain(logs)})
}

func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
