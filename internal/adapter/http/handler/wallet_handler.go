package handler

import (
	"context"
	"net/http"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	GetBalance(ctx context.Context, ownerID, currency string) (*domain.Wallet, error)
	ListWallets(ctx context.Context, ownerID string) ([]*domain.Wallet, error)
}

// WalletHandler serves balance reads.
type WalletHandler struct {
	wallets WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallets WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// List returns every wallet of the caller.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	wallets, err := h.wallets.ListWallets(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, "failed to list wallets", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletsFromDomain(wallets))
}

// Balance returns the caller's balance in one currency, zero if no wallet exists.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	currency := r.URL.Query().Get("currency")
	if currency == "" {
		writeError(w, http.StatusBadRequest, "missing currency", "")
		return
	}

	wallet, err := h.wallets.GetBalance(r.Context(), user.ID, currency)
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}
