package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

const defaultQueueLimit = 50

// AdminService defines the ledger operations reserved for admins.
type AdminService interface {
	Approve(ctx context.Context, transactionID, actorID string) (*domain.Transaction, error)
	Decline(ctx context.Context, transactionID, actorID string) (*domain.Transaction, error)
	AdminCredit(ctx context.Context, input usecase.AdjustInput) (*domain.Transaction, error)
	AdminDebit(ctx context.Context, input usecase.AdjustInput) (*domain.Transaction, error)
	ClearDeposits(ctx context.Context, actorID string) (int64, error)
	DepositQueue(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	WithdrawalQueue(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error)
}

// AdminHandler handles the admin action gateway.
type AdminHandler struct {
	ledger AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ledger AdminService) *AdminHandler {
	return &AdminHandler{ledger: ledger}
}

// Deposits lists deposits that have not been cleared, newest first.
func (h *AdminHandler) Deposits(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.DepositQueue(r.Context(), parseIntQuery(r, "limit", defaultQueueLimit), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list deposits", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{Items: dto.TransactionsFromDomain(items)})
}

// Withdrawals lists all withdrawals, newest first.
func (h *AdminHandler) Withdrawals(w http.ResponseWriter, r *http.Request) {
	h.withdrawals(w, r, "")
}

// UserWithdrawals lists the withdrawals of one owner.
func (h *AdminHandler) UserWithdrawals(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerId")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "missing owner ID", "")
		return
	}
	h.withdrawals(w, r, ownerID)
}

func (h *AdminHandler) withdrawals(w http.ResponseWriter, r *http.Request, ownerID string) {
	items, err := h.ledger.WithdrawalQueue(r.Context(), ownerID, parseIntQuery(r, "limit", defaultQueueLimit), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list withdrawals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{Items: dto.TransactionsFromDomain(items)})
}

// Approve completes a pending transaction and applies it to the wallet.
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.ledger.Approve, "failed to approve transaction")
}

// Decline rejects a pending transaction.
func (h *AdminHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.ledger.Decline, "failed to decline transaction")
}

func (h *AdminHandler) resolve(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, transactionID, actorID string) (*domain.Transaction, error),
	failure string,
) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	t, err := op(r.Context(), id, user.ID)
	if err != nil {
		writeDomainError(w, failure, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(t))
}

// Credit adds funds to a wallet directly.
func (h *AdminHandler) Credit(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.ledger.AdminCredit, "failed to credit wallet")
}

// Debit removes funds from a wallet directly.
func (h *AdminHandler) Debit(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.ledger.AdminDebit, "failed to debit wallet")
}

func (h *AdminHandler) adjust(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, input usecase.AdjustInput) (*domain.Transaction, error),
	failure string,
) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.AdjustWalletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, failure, err)
		return
	}

	t, err := op(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeDomainError(w, failure, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(t))
}

// ClearDeposits marks every deposit not yet cleared as cleared.
func (h *AdminHandler) ClearDeposits(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := h.ledger.ClearDeposits(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, "failed to clear deposits", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClearDepositsResponse{ClearedCount: n})
}
