package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/postgres/generated"
	"github.com/iho/walletledger/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	queries *generated.Queries
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db generated.DBTX) *WalletRepository {
	return &WalletRepository{queries: generated.New(db)}
}

// GetByOwnerAndCurrency retrieves a wallet.
func (r *WalletRepository) GetByOwnerAndCurrency(ctx context.Context, ownerID, currency string) (*domain.Wallet, error) {
	key := domain.NewWalletKey(ownerID, currency)
	row, err := r.queries.GetWallet(ctx, generated.GetWalletParams{
		OwnerID:  key.OwnerID,
		Currency: key.Currency,
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	return rowToWallet(row), nil
}

// GetForUpdate retrieves a wallet with a FOR UPDATE lock.
func (r *WalletRepository) GetForUpdate(ctx context.Context, tx usecase.Tx, ownerID, currency string) (*domain.Wallet, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	key := domain.NewWalletKey(ownerID, currency)
	row, err := queries.GetWalletForUpdate(ctx, generated.GetWalletForUpdateParams{
		OwnerID:  key.OwnerID,
		Currency: key.Currency,
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, mapLockError(err)
	}

	return rowToWallet(row), nil
}

// ListByOwner lists the wallets of one owner ordered by currency.
func (r *WalletRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Wallet, error) {
	rows, err := r.queries.ListWalletsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return rowsToWallets(rows), nil
}

// List lists all wallets with pagination inside tx.
func (r *WalletRepository) List(ctx context.Context, tx usecase.Tx, limit, offset int) ([]*domain.Wallet, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.ListWallets(ctx, generated.ListWalletsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToWallets(rows), nil
}

// ApplyDelta adds delta to the wallet balance in one statement, creating
// the wallet when it does not exist. A balance that would drop below zero
// leaves the row untouched.
func (r *WalletRepository) ApplyDelta(
	ctx context.Context,
	tx usecase.Tx,
	ownerID, currency string,
	kind domain.WalletKind,
	delta decimal.Decimal,
	at time.Time,
) (*domain.Wallet, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	key := domain.NewWalletKey(ownerID, currency)
	row, err := queries.ApplyWalletDelta(ctx, generated.ApplyWalletDeltaParams{
		OwnerID:   key.OwnerID,
		Currency:  key.Currency,
		Kind:      string(kind),
		Delta:     decimalToNumeric(delta),
		UpdatedAt: timeToPgTimestamptz(at),
	})
	if err != nil {
		// No row means the conditional update was skipped; a check violation
		// means a new wallet would have started below zero.
		if isNoRows(err) || pgErrorCode(err) == pgErrCheckViolation {
			return nil, fmt.Errorf("%w: wallet %s, delta %s", domain.ErrInsufficientBalance, key, delta)
		}
		return nil, mapLockError(err)
	}

	return rowToWallet(row), nil
}

func rowsToWallets(rows []generated.Wallet) []*domain.Wallet {
	wallets := make([]*domain.Wallet, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, rowToWallet(row))
	}
	return wallets
}

func rowToWallet(row generated.Wallet) *domain.Wallet {
	return &domain.Wallet{
		OwnerID:   row.OwnerID,
		Currency:  row.Currency,
		Kind:      domain.WalletKind(row.Kind),
		Balance:   numericToDecimal(row.Balance),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
