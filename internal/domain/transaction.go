package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the type of money movement a transaction records.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindProfit     TransactionKind = "profit"
	KindLoss       TransactionKind = "loss"
)

// IsValid reports whether k is a known kind.
func (k TransactionKind) IsValid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindProfit, KindLoss:
		return true
	}
	return false
}

// IsCredit reports whether completing a transaction of this kind increases the balance.
func (k TransactionKind) IsCredit() bool {
	return k == KindDeposit || k == KindProfit
}

// IsDebit reports whether completing a transaction of this kind decreases the balance.
func (k TransactionKind) IsDebit() bool {
	return k == KindWithdrawal || k == KindLoss
}

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusDeclined  TransactionStatus = "declined"
	StatusCleared   TransactionStatus = "cleared"
)

// IsValid reports whether s is a known status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusDeclined, StatusCleared:
		return true
	}
	return false
}

var statusTransitions = map[TransactionStatus]map[TransactionStatus]struct{}{
	StatusPending: {
		StatusCompleted: {},
		StatusDeclined:  {},
		StatusCleared:   {},
	},
	StatusCompleted: {
		StatusCleared: {},
	},
	StatusDeclined: {
		StatusCleared: {},
	},
	StatusCleared: {},
}

// CanTransition reports whether a transaction of kind may move from current to next.
// Only deposits can be cleared.
func CanTransition(kind TransactionKind, current, next TransactionStatus) bool {
	if next == StatusCleared && kind != KindDeposit {
		return false
	}
	nextStates, ok := statusTransitions[current]
	if !ok {
		return false
	}
	_, ok = nextStates[next]
	return ok
}

// Transaction is a request to move money into or out of a wallet.
type Transaction struct {
	CreatedAt   time.Time
	ResolvedAt  *time.Time
	Details     Details
	ClearedFrom *TransactionStatus
	ID          string
	OwnerID     string
	ActorID     string
	Currency    string
	Kind        TransactionKind
	Status      TransactionStatus
	Amount      decimal.Decimal
}

// Validate checks the transaction before it is written to the log.
func (t *Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, t.Kind)
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if err := ValidateCurrency(t.Currency); err != nil {
		return err
	}
	if t.Details == nil {
		return fmt.Errorf("%w: details are required", ErrInvalidDetails)
	}
	return t.Details.validateFor(t.Kind)
}

// SignedAmount returns the delta completing t applies to its wallet.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind.IsDebit() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Settled reports whether the balance effect of t has been applied.
func (t *Transaction) Settled() bool {
	if t.Status == StatusCompleted {
		return true
	}
	return t.Status == StatusCleared && t.ClearedFrom != nil && *t.ClearedFrom == StatusCompleted
}

// WalletKey returns the wallet this transaction settles against.
func (t *Transaction) WalletKey() WalletKey {
	return NewWalletKey(t.OwnerID, t.Currency)
}

// StatusFilter selects transactions by status. Empty filter matches everything.
type StatusFilter struct {
	In    []TransactionStatus
	NotIn []TransactionStatus
}

// Matches reports whether s passes the filter.
func (f StatusFilter) Matches(s TransactionStatus) bool {
	for _, excluded := range f.NotIn {
		if s == excluded {
			return false
		}
	}
	if len(f.In) == 0 {
		return true
	}
	for _, included := range f.In {
		if s == included {
			return true
		}
	}
	return false
}

// TransactionFilter selects transactions for admin queues.
type TransactionFilter struct {
	OwnerID string
	Kind    TransactionKind
	Status  StatusFilter
	Limit   int
	Offset  int
}

// SettledTotal is the net settled amount for one wallet.
type SettledTotal struct {
	OwnerID  string
	Currency string
	Net      decimal.Decimal
}
