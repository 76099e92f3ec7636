package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create stages a new transaction in tx.
func (r *TransactionRepository) Create(_ context.Context, tx usecase.Tx, t *domain.Transaction) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	if _, exists := mt.transaction(t.ID); exists {
		return fmt.Errorf("memory: duplicate transaction id %s", t.ID)
	}
	mt.transactions[t.ID] = cloneTransaction(t)
	return nil
}

// GetByID retrieves a committed transaction.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return cloneTransaction(t), nil
}

// GetByIDForUpdate retrieves a transaction as seen by tx.
func (r *TransactionRepository) GetByIDForUpdate(_ context.Context, tx usecase.Tx, id string) (*domain.Transaction, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	t, ok := mt.transaction(id)
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return cloneTransaction(t), nil
}

// ListByOwner returns the owner's transactions, newest first.
func (r *TransactionRepository) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	matches := r.filter(func(t *domain.Transaction) bool {
		return t.OwnerID == ownerID
	})
	return page(matches, limit, offset), nil
}

// CountByOwner counts the owner's transactions.
func (r *TransactionRepository) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, t := range r.store.transactions {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// ListByKindAndStatus returns transactions matching filter, newest first.
func (r *TransactionRepository) ListByKindAndStatus(_ context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	matches := r.filter(func(t *domain.Transaction) bool {
		if filter.Kind != "" && t.Kind != filter.Kind {
			return false
		}
		if filter.OwnerID != "" && t.OwnerID != filter.OwnerID {
			return false
		}
		return filter.Status.Matches(t.Status)
	})
	return page(matches, filter.Limit, filter.Offset), nil
}

// UpdateStatus moves a transaction from expected to next within tx.
func (r *TransactionRepository) UpdateStatus(
	_ context.Context,
	tx usecase.Tx,
	id string,
	expected, next domain.TransactionStatus,
	actorID string,
	at time.Time,
) (*domain.Transaction, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	current, ok := mt.transaction(id)
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if current.Status != expected {
		return nil, fmt.Errorf("%w: transaction %s is %s, expected %s", domain.ErrConflict, id, current.Status, expected)
	}

	updated := cloneTransaction(current)
	updated.Status = next
	updated.ActorID = actorID
	updated.ResolvedAt = &at
	mt.transactions[id] = updated

	return cloneTransaction(updated), nil
}

// ClearByKind stages every transaction of kind that is not cleared as cleared.
func (r *TransactionRepository) ClearByKind(
	_ context.Context,
	tx usecase.Tx,
	kind domain.TransactionKind,
	actorID string,
	at time.Time,
) (int64, error) {
	mt, err := asTx(tx)
	if err != nil {
		return 0, err
	}

	var n int64
	for id, t := range mt.transactionsView() {
		if t.Kind != kind || t.Status == domain.StatusCleared {
			continue
		}

		updated := cloneTransaction(t)
		from := t.Status
		updated.ClearedFrom = &from
		updated.Status = domain.StatusCleared
		updated.ActorID = actorID
		if updated.ResolvedAt == nil {
			updated.ResolvedAt = &at
		}
		mt.transactions[id] = updated
		n++
	}
	return n, nil
}

// SettledTotals sums the signed amount of settled transactions per wallet.
func (r *TransactionRepository) SettledTotals(_ context.Context, tx usecase.Tx) ([]domain.SettledTotal, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	totals := make(map[domain.WalletKey]*domain.SettledTotal)
	for _, t := range mt.transactionsView() {
		if !t.Settled() {
			continue
		}
		key := t.WalletKey()
		total, ok := totals[key]
		if !ok {
			total = &domain.SettledTotal{OwnerID: key.OwnerID, Currency: key.Currency}
			totals[key] = total
		}
		total.Net = total.Net.Add(t.SignedAmount())
	}

	result := make([]domain.SettledTotal, 0, len(totals))
	for _, total := range totals {
		result = append(result, *total)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].OwnerID != result[j].OwnerID {
			return result[i].OwnerID < result[j].OwnerID
		}
		return result[i].Currency < result[j].Currency
	})
	return result, nil
}

// filter returns committed transactions matching keep, newest first.
func (r *TransactionRepository) filter(keep func(*domain.Transaction) bool) []*domain.Transaction {
	r.store.mu.RLock()
	matches := make([]*domain.Transaction, 0)
	for _, t := range r.store.transactions {
		if keep(t) {
			matches = append(matches, cloneTransaction(t))
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	return matches
}
