package handler

import (
	"context"
	"net/http"

	"github.com/iho/walletledger/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	Run(ctx context.Context) (*usecase.ReconciliationReport, error)
	LastReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReconciliationHandler exposes balance reconciliation to admins.
type ReconciliationHandler struct {
	reconciler ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciler ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciler: reconciler}
}

// Run reconciles every wallet now and returns the report.
func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.Run(r.Context())
	if err != nil {
		writeDomainError(w, "reconciliation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Last returns the most recent cached report.
func (h *ReconciliationHandler) Last(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.LastReport(r.Context())
	if err != nil {
		writeDomainError(w, "no reconciliation report", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
