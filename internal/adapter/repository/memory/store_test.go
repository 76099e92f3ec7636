package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/walletledger/internal/domain"
)

func newTransaction(id, owner string, kind domain.TransactionKind, status domain.TransactionStatus, amount int64, createdAt time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:        id,
		OwnerID:   owner,
		Kind:      kind,
		Status:    status,
		Amount:    decimal.NewFromInt(amount),
		Currency:  "USD",
		Details:   domain.DepositDetails{AssetType: domain.WalletKindFiat},
		CreatedAt: createdAt,
	}
}

func TestTx_RollbackDiscardsStagedWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	wallets := NewWalletRepository(store)
	txs := NewTransactionRepository(store)

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	_, err = wallets.ApplyDelta(ctx, tx, "alice", "usd", domain.WalletKindFiat, decimal.NewFromInt(100), time.Now())
	require.NoError(t, err)
	require.NoError(t, txs.Create(ctx, tx, newTransaction("t1", "alice", domain.KindDeposit, domain.StatusCompleted, 100, time.Now())))

	// Staged writes are visible inside the transaction only.
	w, err := wallets.GetForUpdate(ctx, tx, "alice", "USD")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(100)))

	_, err = wallets.GetByOwnerAndCurrency(ctx, "alice", "USD")
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)

	require.NoError(t, tx.Rollback(ctx))

	_, err = wallets.GetByOwnerAndCurrency(ctx, "alice", "USD")
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	_, err = txs.GetByID(ctx, "t1")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestTx_CommitPublishesWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	wallets := NewWalletRepository(store)

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	_, err = wallets.ApplyDelta(ctx, tx, "alice", "USD", domain.WalletKindFiat, decimal.NewFromInt(40), time.Now())
	require.NoError(t, err)
	_, err = wallets.ApplyDelta(ctx, tx, "alice", "USD", domain.WalletKindFiat, decimal.NewFromInt(-15), time.Now())
	require.NoError(t, err)

	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx), "rollback after commit is a no-op")

	w, err := wallets.GetByOwnerAndCurrency(ctx, "alice", "USD")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, int64(2), w.Version)

	_, err = wallets.GetForUpdate(ctx, tx, "alice", "USD")
	assert.ErrorIs(t, err, ErrTxDone)
}

func TestWalletRepository_ApplyDeltaNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	wallets := NewWalletRepository(store)

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = wallets.ApplyDelta(ctx, tx, "bob", "USD", domain.WalletKindFiat, decimal.NewFromInt(-1), time.Now())
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = wallets.GetForUpdate(ctx, tx, "bob", "USD")
	assert.ErrorIs(t, err, domain.ErrWalletNotFound, "failed delta must not create the wallet")
}

func TestStore_BeginWaitsForWriterSlot(t *testing.T) {
	store := NewStore()

	first, err := store.Begin(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = store.Begin(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, first.Rollback(context.Background()))

	second, err := store.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, second.Rollback(context.Background()))
}

func TestStore_SnapshotHoldsOffWriters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	wallets := NewWalletRepository(store)

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = wallets.ApplyDelta(ctx, tx, "alice", "USD", domain.WalletKindFiat, decimal.NewFromInt(10), time.Now())
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	snap, err := store.BeginSnapshot(ctx)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = store.Begin(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	list, err := wallets.List(ctx, snap, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Balance.Equal(decimal.NewFromInt(10)))

	require.NoError(t, snap.Rollback(ctx))
	_, err = wallets.List(ctx, snap, 10, 0)
	assert.ErrorIs(t, err, ErrTxDone)
}

func TestTransactionRepository_UpdateStatusIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txs := NewTransactionRepository(store)

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, txs.Create(ctx, tx, newTransaction("t1", "alice", domain.KindDeposit, domain.StatusPending, 10, time.Now())))
	require.NoError(t, tx.Commit(ctx))

	tx, err = store.Begin(ctx)
	require.NoError(t, err)
	updated, err := txs.UpdateStatus(ctx, tx, "t1", domain.StatusPending, domain.StatusCompleted, "admin-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, "admin-1", updated.ActorID)

	_, err = txs.UpdateStatus(ctx, tx, "t1", domain.StatusPending, domain.StatusDeclined, "admin-2", time.Now())
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = txs.UpdateStatus(ctx, tx, "missing", domain.StatusPending, domain.StatusDeclined, "admin-2", time.Now())
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	require.NoError(t, tx.Commit(ctx))
}

func TestTransactionRepository_ClearByKind(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txs := NewTransactionRepository(store)
	now := time.Now()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, txs.Create(ctx, tx, newTransaction("d1", "alice", domain.KindDeposit, domain.StatusCompleted, 10, now)))
	require.NoError(t, txs.Create(ctx, tx, newTransaction("d2", "alice", domain.KindDeposit, domain.StatusDeclined, 10, now)))
	require.NoError(t, txs.Create(ctx, tx, newTransaction("w1", "alice", domain.KindWithdrawal, domain.StatusCompleted, 5, now)))
	require.NoError(t, tx.Commit(ctx))

	tx, err = store.Begin(ctx)
	require.NoError(t, err)
	n, err := txs.ClearByKind(ctx, tx, domain.KindDeposit, "admin", now)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, int64(2), n)

	tx, err = store.Begin(ctx)
	require.NoError(t, err)
	n, err = txs.ClearByKind(ctx, tx, domain.KindDeposit, "admin", now)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, int64(0), n)

	d1, err := txs.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCleared, d1.Status)
	require.NotNil(t, d1.ClearedFrom)
	assert.Equal(t, domain.StatusCompleted, *d1.ClearedFrom)

	w1, err := txs.GetByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, w1.Status)
}

func TestTransactionRepository_SettledTotals(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txs := NewTransactionRepository(store)
	now := time.Now()
	completed := domain.StatusCompleted

	cleared := newTransaction("d3", "alice", domain.KindDeposit, domain.StatusCleared, 7, now)
	cleared.ClearedFrom = &completed

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, txs.Create(ctx, tx, newTransaction("d1", "alice", domain.KindDeposit, domain.StatusCompleted, 100, now)))
	require.NoError(t, txs.Create(ctx, tx, newTransaction("d2", "alice", domain.KindDeposit, domain.StatusPending, 50, now)))
	require.NoError(t, txs.Create(ctx, tx, cleared))
	require.NoError(t, txs.Create(ctx, tx, newTransaction("l1", "alice", domain.KindLoss, domain.StatusCompleted, 30, now)))
	require.NoError(t, txs.Create(ctx, tx, newTransaction("w1", "bob", domain.KindWithdrawal, domain.StatusDeclined, 5, now)))
	require.NoError(t, tx.Commit(ctx))

	snap, err := store.BeginSnapshot(ctx)
	require.NoError(t, err)
	defer func() { _ = snap.Rollback(ctx) }()

	totals, err := txs.SettledTotals(ctx, snap)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "alice", totals[0].OwnerID)
	assert.True(t, totals[0].Net.Equal(decimal.NewFromInt(77)), "got %s", totals[0].Net)
}

func TestTransactionRepository_ListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txs := NewTransactionRepository(store)
	base := time.Now()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, txs.Create(ctx, tx, newTransaction(id, "alice", domain.KindDeposit, domain.StatusPending, 1, base.Add(time.Duration(i)*time.Second))))
	}
	require.NoError(t, txs.Create(ctx, tx, newTransaction("w", "alice", domain.KindWithdrawal, domain.StatusPending, 1, base)))
	require.NoError(t, tx.Commit(ctx))

	items, err := txs.ListByOwner(ctx, "alice", 2, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "b", items[1].ID)

	count, err := txs.CountByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	deposits, err := txs.ListByKindAndStatus(ctx, domain.TransactionFilter{
		Kind:   domain.KindDeposit,
		Status: domain.StatusFilter{In: []domain.TransactionStatus{domain.StatusPending}},
	})
	require.NoError(t, err)
	assert.Len(t, deposits, 3)
}
