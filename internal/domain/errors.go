package domain

import "errors"

var (
	// Wallet errors
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrWalletNotFound      = errors.New("wallet not found")

	// Transaction errors
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidState        = errors.New("transaction is not in a resolvable state")
	ErrConflict            = errors.New("transaction was modified concurrently")
	ErrInvalidKind         = errors.New("invalid transaction kind")
	ErrInvalidDetails      = errors.New("transaction details do not match kind")
	ErrInvalidDecision     = errors.New("decision must be approve or decline")
	ErrInvalidStatType     = errors.New("invalid stat type")
)
