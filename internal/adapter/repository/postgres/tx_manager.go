package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/walletledger/internal/usecase"
)

const setLockTimeout = `SELECT set_config('lock_timeout', $1, true)`

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
	BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error)
}

var snapshotTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// TxManager implements usecase.TxManager.
type TxManager struct {
	pool        pgxPool
	lockTimeout time.Duration
}

// NewTxManager creates a new TxManager. A positive lockTimeout bounds how
// long statements inside a transaction wait for row locks.
func NewTxManager(pool *pgxpool.Pool, lockTimeout time.Duration) *TxManager {
	return newTxManagerWithPool(pool, lockTimeout)
}

func newTxManagerWithPool(pool pgxPool, lockTimeout time.Duration) *TxManager {
	return &TxManager{pool: pool, lockTimeout: lockTimeout}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if m.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, setLockTimeout, fmt.Sprintf("%dms", m.lockTimeout.Milliseconds())); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	return &Tx{tx: tx}, nil
}

// BeginSnapshot starts a read-only REPEATABLE READ transaction.
func (m *TxManager) BeginSnapshot(ctx context.Context) (usecase.Tx, error) {
	tx, err := m.pool.BeginTx(ctx, snapshotTxOptions)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction. Rolling back a committed
// transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
