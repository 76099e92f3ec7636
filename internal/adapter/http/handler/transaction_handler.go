package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	Submit(ctx context.Context, input usecase.SubmitInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListActivity(ctx context.Context, ownerID string, limit, offset int) (*usecase.ActivityPage, error)
}

// TransactionHandler handles user requests against their own transactions.
type TransactionHandler struct {
	ledger TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledger TransactionService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// SubmitDeposit records a pending deposit for the caller.
func (h *TransactionHandler) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.SubmitDepositRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	t, err := h.ledger.Submit(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeDomainError(w, "failed to submit deposit", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(t))
}

// SubmitWithdrawal records a pending withdrawal for the caller.
func (h *TransactionHandler) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.SubmitWithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	t, err := h.ledger.Submit(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeDomainError(w, "failed to submit withdrawal", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(t))
}

// Get returns one transaction. Users only see their own.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	t, err := h.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}
	if t.OwnerID != user.ID && !user.Role.CanViewAll() {
		writeDomainError(w, "failed to get transaction", domain.ErrTransactionNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(t))
}

// Activity returns the caller's transactions, newest first.
func (h *TransactionHandler) Activity(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", usecase.DefaultActivityLimit)
	offset := parseIntQuery(r, "offset", 0)

	page, err := h.ledger.ListActivity(r.Context(), user.ID, limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list activity", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ActivityFromUseCase(page))
}
