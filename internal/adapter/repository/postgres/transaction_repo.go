package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/postgres/generated"
	"github.com/iho/walletledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts a transaction within tx.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, t *domain.Transaction) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	details, err := domain.MarshalDetails(t.Details)
	if err != nil {
		return err
	}

	err = queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		ActorID:     t.ActorID,
		Kind:        string(t.Kind),
		Status:      string(t.Status),
		ClearedFrom: statusToText(t.ClearedFrom),
		Amount:      decimalToNumeric(t.Amount),
		Currency:    t.Currency,
		Details:     details,
		CreatedAt:   timeToPgTimestamptz(t.CreatedAt),
		ResolvedAt:  optionalTimestamptz(t.ResolvedAt),
	})
	if pgErrorCode(err) == pgErrUniqueViolation {
		return fmt.Errorf("%w: duplicate transaction id %s", domain.ErrConflict, t.ID)
	}

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row)
}

// GetByIDForUpdate locks the transaction row without waiting. A row already
// locked by a concurrent resolution fails with domain.ErrConflict.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Transaction, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetTransactionForUpdate(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, mapLockError(err)
	}

	return rowToTransaction(row)
}

// ListByOwner lists an owner's transactions, newest first.
func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByOwner(ctx, generated.ListTransactionsByOwnerParams{
		OwnerID: ownerID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows)
}

// CountByOwner counts an owner's transactions.
func (r *TransactionRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.queries.CountTransactionsByOwner(ctx, ownerID)
}

// ListByKindAndStatus lists transactions matching filter, newest first.
func (r *TransactionRepository) ListByKindAndStatus(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, generated.ListTransactionsParams{
		OwnerID:     filter.OwnerID,
		Kind:        string(filter.Kind),
		StatusIn:    statusStrings(filter.Status.In),
		StatusNotIn: statusStrings(filter.Status.NotIn),
		Limit:       int32(filter.Limit),
		Offset:      int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows)
}

// UpdateStatus moves a transaction from expected to next with a conditional update.
func (r *TransactionRepository) UpdateStatus(
	ctx context.Context,
	tx usecase.Tx,
	id string,
	expected, next domain.TransactionStatus,
	actorID string,
	at time.Time,
) (*domain.Transaction, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.UpdateTransactionStatus(ctx, generated.UpdateTransactionStatusParams{
		ID:             id,
		ExpectedStatus: string(expected),
		Status:         string(next),
		ActorID:        actorID,
		ResolvedAt:     timeToPgTimestamptz(at),
	})
	if err == nil {
		return rowToTransaction(row)
	}
	if !isNoRows(err) {
		return nil, mapLockError(err)
	}

	if _, getErr := queries.GetTransaction(ctx, id); getErr != nil {
		if isNoRows(getErr) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, getErr
	}

	return nil, fmt.Errorf("%w: transaction %s is no longer %s", domain.ErrConflict, id, expected)
}

// ClearByKind marks every transaction of kind that is not yet cleared as cleared.
func (r *TransactionRepository) ClearByKind(
	ctx context.Context,
	tx usecase.Tx,
	kind domain.TransactionKind,
	actorID string,
	at time.Time,
) (int64, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return 0, err
	}

	n, err := queries.ClearTransactionsByKind(ctx, generated.ClearTransactionsByKindParams{
		Kind:       string(kind),
		ActorID:    actorID,
		ResolvedAt: timeToPgTimestamptz(at),
	})
	if err != nil {
		return 0, mapLockError(err)
	}

	return n, nil
}

// SettledTotals sums the signed amount of settled transactions per wallet.
func (r *TransactionRepository) SettledTotals(ctx context.Context, tx usecase.Tx) ([]domain.SettledTotal, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.SettledTotals(ctx)
	if err != nil {
		return nil, err
	}

	totals := make([]domain.SettledTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, domain.SettledTotal{
			OwnerID:  row.OwnerID,
			Currency: row.Currency,
			Net:      numericToDecimal(row.Net),
		})
	}

	return totals, nil
}

func rowsToTransactions(rows []generated.Transaction) ([]*domain.Transaction, error) {
	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := rowToTransaction(row)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

func rowToTransaction(row generated.Transaction) (*domain.Transaction, error) {
	details, err := domain.UnmarshalDetails(row.Details)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", row.ID, err)
	}

	var clearedFrom *domain.TransactionStatus
	if row.ClearedFrom.Valid {
		s := domain.TransactionStatus(row.ClearedFrom.String)
		clearedFrom = &s
	}

	return &domain.Transaction{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		ActorID:     row.ActorID,
		Kind:        domain.TransactionKind(row.Kind),
		Status:      domain.TransactionStatus(row.Status),
		ClearedFrom: clearedFrom,
		Amount:      numericToDecimal(row.Amount),
		Currency:    row.Currency,
		Details:     details,
		CreatedAt:   row.CreatedAt.Time,
		ResolvedAt:  pgTimestamptzToPtr(row.ResolvedAt),
	}, nil
}

func statusToText(s *domain.TransactionStatus) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: string(*s), Valid: true}
}

func statusStrings(statuses []domain.TransactionStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
