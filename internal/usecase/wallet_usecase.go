package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
)

// WalletUseCase handles wallet reads.
type WalletUseCase struct {
	walletRepo WalletRepository
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(walletRepo WalletRepository) *WalletUseCase {
	return &WalletUseCase{
		walletRepo: walletRepo,
	}
}

// GetBalance returns the wallet of owner in currency. An owner without such a
// wallet gets an empty one with a zero balance.
func (uc *WalletUseCase) GetBalance(ctx context.Context, ownerID, currency string) (*domain.Wallet, error) {
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))

	wallet, err := uc.walletRepo.GetByOwnerAndCurrency(ctx, ownerID, currency)
	if errors.Is(err, domain.ErrWalletNotFound) {
		return &domain.Wallet{
			OwnerID:  ownerID,
			Currency: currency,
			Kind:     domain.CurrencyKind(currency),
			Balance:  decimal.Zero,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// ListWallets returns every wallet of owner.
func (uc *WalletUseCase) ListWallets(ctx context.Context, ownerID string) ([]*domain.Wallet, error) {
	return uc.walletRepo.ListByOwner(ctx, ownerID)
}
