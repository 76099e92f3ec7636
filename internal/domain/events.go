package domain

import "time"

// Event types
const (
	EventTypeTransactionSubmitted = "transaction.submitted"
	EventTypeTransactionCompleted = "transaction.completed"
	EventTypeTransactionDeclined  = "transaction.declined"
	EventTypeWalletAdjusted       = "wallet.adjusted"
	EventTypeDepositsCleared      = "deposits.cleared"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeWallet      = "wallet"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionEventPayload is the payload of transaction lifecycle events.
func TransactionEventPayload(t *Transaction) map[string]any {
	return map[string]any{
		"transaction_id": t.ID,
		"owner_id":       t.OwnerID,
		"kind":           string(t.Kind),
		"amount":         t.Amount.String(),
		"currency":       t.Currency,
		"status":         string(t.Status),
		"actor_id":       t.ActorID,
	}
}

// WalletEventPayload is the payload of wallet.adjusted.
func WalletEventPayload(w *Wallet, transactionID string) map[string]any {
	return map[string]any{
		"owner_id":       w.OwnerID,
		"currency":       w.Currency,
		"balance":        w.Balance.String(),
		"version":        w.Version,
		"transaction_id": transactionID,
	}
}
