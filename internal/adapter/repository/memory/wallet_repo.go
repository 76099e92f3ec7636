package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	store *Store
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(store *Store) *WalletRepository {
	return &WalletRepository{store: store}
}

// GetByOwnerAndCurrency retrieves a committed wallet.
func (r *WalletRepository) GetByOwnerAndCurrency(_ context.Context, ownerID, currency string) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	w, ok := r.store.wallets[domain.NewWalletKey(ownerID, currency)]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return cloneWallet(w), nil
}

// GetForUpdate retrieves a wallet as seen by tx. The writer slot held by tx
// already excludes every other writer.
func (r *WalletRepository) GetForUpdate(_ context.Context, tx usecase.Tx, ownerID, currency string) (*domain.Wallet, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	w, ok := t.wallet(domain.NewWalletKey(ownerID, currency))
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return cloneWallet(w), nil
}

// ListByOwner returns the wallets of owner ordered by currency.
func (r *WalletRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wallets := make([]*domain.Wallet, 0)
	for key, w := range r.store.wallets {
		if key.OwnerID == ownerID {
			wallets = append(wallets, cloneWallet(w))
		}
	}
	sortWallets(wallets)
	return wallets, nil
}

// List returns all wallets as seen by tx ordered by owner and currency.
func (r *WalletRepository) List(_ context.Context, tx usecase.Tx, limit, offset int) ([]*domain.Wallet, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	view := make(map[domain.WalletKey]*domain.Wallet)
	r.store.mu.RLock()
	for key, w := range r.store.wallets {
		view[key] = w
	}
	r.store.mu.RUnlock()
	for key, w := range t.wallets {
		view[key] = w
	}

	wallets := make([]*domain.Wallet, 0, len(view))
	for _, w := range view {
		wallets = append(wallets, cloneWallet(w))
	}

	sortWallets(wallets)
	return page(wallets, limit, offset), nil
}

// ApplyDelta stages the new balance in tx, creating an empty wallet first when needed.
func (r *WalletRepository) ApplyDelta(
	_ context.Context,
	tx usecase.Tx,
	ownerID, currency string,
	kind domain.WalletKind,
	delta decimal.Decimal,
	at time.Time,
) (*domain.Wallet, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	key := domain.NewWalletKey(ownerID, currency)
	current, ok := t.wallet(key)
	if !ok {
		current = &domain.Wallet{
			OwnerID:   key.OwnerID,
			Currency:  key.Currency,
			Kind:      kind,
			Balance:   decimal.Zero,
			CreatedAt: at,
		}
	}

	balance, err := current.ApplyDelta(delta)
	if err != nil {
		return nil, err
	}

	next := cloneWallet(current)
	next.Balance = balance
	next.Version++
	next.UpdatedAt = at
	t.wallets[key] = next

	return cloneWallet(next), nil
}

func sortWallets(wallets []*domain.Wallet) {
	sort.Slice(wallets, func(i, j int) bool {
		if wallets[i].OwnerID != wallets[j].OwnerID {
			return wallets[i].OwnerID < wallets[j].OwnerID
		}
		return wallets[i].Currency < wallets[j].Currency
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
