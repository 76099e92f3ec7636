package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/walletledger/internal/domain"
)

var transactionColumns = []string{
	"id", "owner_id", "actor_id", "kind", "status", "cleared_from",
	"amount", "currency", "details", "created_at", "resolved_at",
}

func depositDetailsJSON(t *testing.T) []byte {
	t.Helper()
	data, err := domain.MarshalDetails(domain.DepositDetails{AssetType: domain.WalletKindFiat, Description: "Deposit of 100 USD"})
	require.NoError(t, err)
	return data
}

func TestTransactionRepository_Create(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTransactionRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("INSERT INTO transactions").
		WithArgs("t1", "alice", "alice", "deposit", "pending",
			pgxmock.AnyArg(), pgxmock.AnyArg(), "USD", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), tx, &domain.Transaction{
		ID:        "t1",
		OwnerID:   "alice",
		ActorID:   "alice",
		Kind:      domain.KindDeposit,
		Status:    domain.StatusPending,
		Amount:    decimal.NewFromInt(100),
		Currency:  "USD",
		Details:   domain.DepositDetails{AssetType: domain.WalletKindFiat},
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assertExpectations(t, pool)
}

func TestTransactionRepository_GetByIDForUpdate(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTransactionRepository(pool)
	tx := beginMockTx(t, pool)
	now := time.Now().UTC()

	pool.ExpectQuery("FOR UPDATE NOWAIT").
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow("t1", "alice", "alice", "deposit", "pending", nil, "100", "USD", depositDetailsJSON(t), now, nil))

	got, err := repo.GetByIDForUpdate(context.Background(), tx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Nil(t, got.ClearedFrom)
	assert.Nil(t, got.ResolvedAt)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.WalletKindFiat, got.Details.Asset())
}

func TestTransactionRepository_GetByIDForUpdateLocked(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTransactionRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("FOR UPDATE NOWAIT").
		WithArgs("t1").
		WillReturnError(&pgconn.PgError{Code: pgErrLockNotAvailable})

	_, err := repo.GetByIDForUpdate(context.Background(), tx, "t1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransactionRepository_UpdateStatus(t *testing.T) {
	now := time.Now().UTC()

	t.Run("applied", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewTransactionRepository(pool)
		tx := beginMockTx(t, pool)

		pool.ExpectQuery("UPDATE transactions").
			WithArgs("t1", "pending", "completed", "admin-1", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(transactionColumns).
				AddRow("t1", "alice", "admin-1", "deposit", "completed", nil, "100", "USD", depositDetailsJSON(t), now, now))

		got, err := repo.UpdateStatus(context.Background(), tx, "t1", domain.StatusPending, domain.StatusCompleted, "admin-1", now)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, got.Status)
		require.NotNil(t, got.ResolvedAt)
	})

	t.Run("status moved underneath", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewTransactionRepository(pool)
		tx := beginMockTx(t, pool)

		pool.ExpectQuery("UPDATE transactions").WillReturnRows(pgxmock.NewRows(transactionColumns))
		pool.ExpectQuery("FROM transactions").
			WithArgs("t1").
			WillReturnRows(pgxmock.NewRows(transactionColumns).
				AddRow("t1", "alice", "admin-2", "deposit", "declined", nil, "100", "USD", depositDetailsJSON(t), now, now))

		_, err := repo.UpdateStatus(context.Background(), tx, "t1", domain.StatusPending, domain.StatusCompleted, "admin-1", now)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("missing", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewTransactionRepository(pool)
		tx := beginMockTx(t, pool)

		pool.ExpectQuery("UPDATE transactions").WillReturnRows(pgxmock.NewRows(transactionColumns))
		pool.ExpectQuery("FROM transactions").WithArgs("nope").WillReturnRows(pgxmock.NewRows(transactionColumns))

		_, err := repo.UpdateStatus(context.Background(), tx, "nope", domain.StatusPending, domain.StatusCompleted, "admin-1", now)
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})
}

func TestTransactionRepository_ClearByKind(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTransactionRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("SET cleared_from = status").
		WithArgs("deposit", "admin-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.ClearByKind(context.Background(), tx, domain.KindDeposit, "admin-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assertExpectations(t, pool)
}

func TestTransactionRepository_ListByKindAndStatus(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTransactionRepository(pool)
	now := time.Now().UTC()

	pool.ExpectQuery("FROM transactions").
		WithArgs("", "deposit", []string{}, []string{"cleared"}, int32(25), int32(0)).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow("t2", "bob", "system", "deposit", "cleared", "completed", "5", "USD", depositDetailsJSON(t), now, now))

	items, err := repo.ListByKindAndStatus(context.Background(), domain.TransactionFilter{
		Kind:   domain.KindDeposit,
		Status: domain.StatusFilter{NotIn: []domain.TransactionStatus{domain.StatusCleared}},
		Limit:  25,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].ClearedFrom)
	assert.Equal(t, domain.StatusCompleted, *items[0].ClearedFrom)
}

func TestTransactionRepository_SettledTotals(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTransactionRepository(pool)

	tx := beginMockTx(t, pool)

	pool.ExpectQuery("SUM").
		WillReturnRows(pgxmock.NewRows([]string{"owner_id", "currency", "net"}).
			AddRow("alice", "USD", "77").
			AddRow("bob", "BTC", "0.5"))

	totals, err := repo.SettledTotals(context.Background(), tx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.True(t, totals[0].Net.Equal(decimal.NewFromInt(77)))
	assert.True(t, totals[1].Net.Equal(decimal.RequireFromString("0.5")))
}
