package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WalletKind tells whether a wallet holds a fiat or crypto unit of account.
type WalletKind string

const (
	WalletKindFiat   WalletKind = "fiat"
	WalletKindCrypto WalletKind = "crypto"
)

// IsValid reports whether k is a known wallet kind.
func (k WalletKind) IsValid() bool {
	return k == WalletKindFiat || k == WalletKindCrypto
}

// WalletKey identifies a wallet.
type WalletKey struct {
	OwnerID  string
	Currency string
}

// NewWalletKey normalizes the currency code.
func NewWalletKey(ownerID, currency string) WalletKey {
	return WalletKey{OwnerID: ownerID, Currency: strings.ToUpper(strings.TrimSpace(currency))}
}

func (k WalletKey) String() string {
	return fmt.Sprintf("%s/%s", k.OwnerID, k.Currency)
}

// Wallet holds the balance of one owner in one currency.
type Wallet struct {
	OwnerID   string
	Currency  string
	Kind      WalletKind
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key returns the wallet identity.
func (w *Wallet) Key() WalletKey {
	return WalletKey{OwnerID: w.OwnerID, Currency: w.Currency}
}

// ValidateDebit checks if wallet can be debited by amount.
func (w *Wallet) ValidateDebit(amount decimal.Decimal) error {
	if w.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientBalance, w.Balance, amount)
	}
	return nil
}

// ApplyDelta returns the balance after a signed delta, refusing to go below zero.
func (w *Wallet) ApplyDelta(delta decimal.Decimal) (decimal.Decimal, error) {
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return w.Balance, fmt.Errorf("%w: balance %s, delta %s", ErrInsufficientBalance, w.Balance, delta)
	}
	return next, nil
}

// BalanceOf returns the balance of w, treating a missing wallet as empty.
func BalanceOf(w *Wallet) decimal.Decimal {
	if w == nil {
		return decimal.Zero
	}
	return w.Balance
}
