// Package memory is an in-process implementation of the ledger repositories.
// Transactions are serialized by a single writer slot and stage their writes
// until Commit, so a rolled back transaction leaves no trace.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

// Store holds all committed state.
type Store struct {
	writer chan struct{}

	mu           sync.RWMutex
	wallets      map[domain.WalletKey]*domain.Wallet
	transactions map[string]*domain.Transaction
	events       []*domain.OutboxEvent
	audit        []*domain.AuditLog
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		writer:       make(chan struct{}, 1),
		wallets:      make(map[domain.WalletKey]*domain.Wallet),
		transactions: make(map[string]*domain.Transaction),
	}
}

// Begin waits for the writer slot and starts a transaction. It implements
// usecase.TxManager.
func (s *Store) Begin(ctx context.Context) (usecase.Tx, error) {
	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &Tx{
		store:        s,
		wallets:      make(map[domain.WalletKey]*domain.Wallet),
		transactions: make(map[string]*domain.Transaction),
	}, nil
}

// BeginSnapshot starts a transaction used only for reads. Holding the
// writer slot keeps committed state fixed until it ends.
func (s *Store) BeginSnapshot(ctx context.Context) (usecase.Tx, error) {
	return s.Begin(ctx)
}

// Tx stages writes until Commit.
type Tx struct {
	store *Store
	done  bool

	wallets      map[domain.WalletKey]*domain.Wallet
	transactions map[string]*domain.Transaction
	events       []*domain.OutboxEvent
	audit        []*domain.AuditLog
}

// Commit publishes the staged writes and releases the writer slot.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}

	t.store.mu.Lock()
	for key, w := range t.wallets {
		t.store.wallets[key] = w
	}
	for id, tr := range t.transactions {
		t.store.transactions[id] = tr
	}
	t.store.events = append(t.store.events, t.events...)
	t.store.audit = append(t.store.audit, t.audit...)
	t.store.mu.Unlock()

	t.finish()
	return nil
}

// Rollback drops the staged writes. Calling it after Commit is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.done = true
	<-t.store.writer
}

func (t *Tx) wallet(key domain.WalletKey) (*domain.Wallet, bool) {
	if w, ok := t.wallets[key]; ok {
		return w, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	w, ok := t.store.wallets[key]
	return w, ok
}

func (t *Tx) transaction(id string) (*domain.Transaction, bool) {
	if tr, ok := t.transactions[id]; ok {
		return tr, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	tr, ok := t.store.transactions[id]
	return tr, ok
}

// transactionsView merges committed and staged transactions.
func (t *Tx) transactionsView() map[string]*domain.Transaction {
	t.store.mu.RLock()
	view := make(map[string]*domain.Transaction, len(t.store.transactions)+len(t.transactions))
	for id, tr := range t.store.transactions {
		view[id] = tr
	}
	t.store.mu.RUnlock()

	for id, tr := range t.transactions {
		view[id] = tr
	}
	return view
}

func asTx(tx usecase.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, errors.New("memory: foreign transaction")
	}
	if t.done {
		return nil, ErrTxDone
	}
	return t, nil
}

func cloneWallet(w *domain.Wallet) *domain.Wallet {
	c := *w
	return &c
}

func cloneTransaction(tr *domain.Transaction) *domain.Transaction {
	c := *tr
	if tr.ResolvedAt != nil {
		at := *tr.ResolvedAt
		c.ResolvedAt = &at
	}
	if tr.ClearedFrom != nil {
		from := *tr.ClearedFrom
		c.ClearedFrom = &from
	}
	return &c
}
