package domain

import (
	"context"
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for every ledger mutation.
type AuditLog struct {
	ID           string
	ActorID      string // Who performed the action
	Action       string // What action (transaction.approve, wallet.credit, etc.)
	ResourceType string // Type of resource (transaction, wallet)
	ResourceID   string // ID of the resource
	RequestID    string // Request ID for tracing
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	Status       string // success, failure, error
	ErrorMessage string // If status=error, the error message
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	// Transaction actions
	AuditActionTransactionSubmit  AuditAction = "transaction.submit"
	AuditActionTransactionApprove AuditAction = "transaction.approve"
	AuditActionTransactionDecline AuditAction = "transaction.decline"
	AuditActionDepositsClear      AuditAction = "deposits.clear"

	// Wallet actions
	AuditActionWalletCredit AuditAction = "wallet.credit"
	AuditActionWalletDebit  AuditAction = "wallet.debit"
)

// Audited resource types
const (
	ResourceTypeTransaction = "transaction"
	ResourceTypeWallet      = "wallet"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// TransactionState is the audit snapshot of a transaction.
func TransactionState(t *Transaction) JSON {
	if t == nil {
		return nil
	}
	state := JSON{
		"id":       t.ID,
		"owner_id": t.OwnerID,
		"kind":     string(t.Kind),
		"amount":   t.Amount.String(),
		"currency": t.Currency,
		"status":   string(t.Status),
	}
	if t.ClearedFrom != nil {
		state["cleared_from"] = string(*t.ClearedFrom)
	}
	return state
}

// WalletState is the audit snapshot of a wallet.
func WalletState(w *Wallet) JSON {
	if w == nil {
		return nil
	}
	return JSON{
		"owner_id": w.OwnerID,
		"currency": w.Currency,
		"kind":     string(w.Kind),
		"balance":  w.Balance.String(),
		"version":  w.Version,
	}
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}

type requestIDContextKey struct{}

// ContextWithRequestID stores the request id recorded on audit entries.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request id stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
