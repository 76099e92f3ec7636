package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
)

// WalletRepository defines data access for wallets.
// ApplyDelta is the only operation that writes a balance.
type WalletRepository interface {
	GetByOwnerAndCurrency(ctx context.Context, ownerID, currency string) (*domain.Wallet, error)
	GetForUpdate(ctx context.Context, tx Tx, ownerID, currency string) (*domain.Wallet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Wallet, error)
	// List pages through all wallets as seen by tx.
	List(ctx context.Context, tx Tx, limit, offset int) ([]*domain.Wallet, error)
	// ApplyDelta creates the wallet with a zero balance if it does not exist
	// and adds delta to it. A result below zero fails with
	// domain.ErrInsufficientBalance and changes nothing.
	ApplyDelta(ctx context.Context, tx Tx, ownerID, currency string, kind domain.WalletKind, delta decimal.Decimal, at time.Time) (*domain.Wallet, error)
}

// TransactionRepository defines data access for the transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Tx, id string) (*domain.Transaction, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	ListByKindAndStatus(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	// UpdateStatus moves a transaction from expected to next. It fails with
	// domain.ErrConflict when the stored status is not expected at write time.
	UpdateStatus(ctx context.Context, tx Tx, id string, expected, next domain.TransactionStatus, actorID string, at time.Time) (*domain.Transaction, error)
	// ClearByKind marks every transaction of kind that is not yet cleared as
	// cleared and returns how many rows changed.
	ClearByKind(ctx context.Context, tx Tx, kind domain.TransactionKind, actorID string, at time.Time) (int64, error)
	// SettledTotals sums settled transactions per wallet as seen by tx.
	SettledTotals(ctx context.Context, tx Tx) ([]domain.SettledTotal, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Tx, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Tx, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Tx represents a database transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
	// BeginSnapshot starts a read-only transaction whose reads all see the
	// same committed state.
	BeginSnapshot(ctx context.Context) (Tx, error)
}

// Retrier re-runs an operation that failed with a transient storage error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}
