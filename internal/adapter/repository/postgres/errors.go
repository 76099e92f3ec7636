package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/postgres/generated"
	"github.com/iho/walletledger/internal/usecase"
)

// PostgreSQL error codes.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
	pgErrCheckViolation       = "23514"
	pgErrUniqueViolation      = "23505"
)

// ErrForeignTx is returned when a repository receives a transaction it did not begin.
var ErrForeignTx = errors.New("postgres: transaction was not started by TxManager")

// txQueries binds the generated queries to the pgx transaction behind tx.
func txQueries(tx usecase.Tx) (*generated.Queries, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, ErrForeignTx
	}
	return generated.New(t.PgxTx()), nil
}

// mapLockError translates a failed NOWAIT or lock_timeout wait into domain.ErrConflict.
func mapLockError(err error) error {
	if pgErrorCode(err) == pgErrLockNotAvailable {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
