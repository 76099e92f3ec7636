package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidOwner       = errors.New("invalid owner id")
	ErrAmountTooLarge     = fmt.Errorf("%w: exceeds maximum allowed", ErrInvalidAmount)
	ErrAmountTooSmall     = fmt.Errorf("%w: below minimum allowed", ErrInvalidAmount)
	ErrAmountTooPrecise   = fmt.Errorf("%w: too many decimal places", ErrInvalidAmount)
	ErrDescriptionTooLong = errors.New("description exceeds limit")
)

// Validation constants
const (
	MaxOwnerIDLength     = 64
	MaxDescriptionLength = 512
	MaxAmount            = "1000000000000" // 1 trillion
	MinAmount            = "0.01"

	// MaxAmountScale matches the NUMERIC(38, 18) money columns.
	MaxAmountScale = 18
)

// Accepted fiat (ISO 4217) and crypto currency codes.
var validCurrencies = map[string]WalletKind{
	"USD": WalletKindFiat, "EUR": WalletKindFiat, "GBP": WalletKindFiat, "JPY": WalletKindFiat,
	"CNY": WalletKindFiat, "AUD": WalletKindFiat, "CAD": WalletKindFiat, "CHF": WalletKindFiat,
	"SEK": WalletKindFiat, "NZD": WalletKindFiat, "KRW": WalletKindFiat, "SGD": WalletKindFiat,
	"NOK": WalletKindFiat, "MXN": WalletKindFiat, "INR": WalletKindFiat, "BRL": WalletKindFiat,
	"ZAR": WalletKindFiat, "TRY": WalletKindFiat, "HKD": WalletKindFiat, "NGN": WalletKindFiat,
	"BTC": WalletKindCrypto, "ETH": WalletKindCrypto, "USDT": WalletKindCrypto, "USDC": WalletKindCrypto,
	"LTC": WalletKindCrypto, "XRP": WalletKindCrypto, "SOL": WalletKindCrypto, "BNB": WalletKindCrypto,
	"TRX": WalletKindCrypto, "DOGE": WalletKindCrypto,
}

// ValidateCurrency validates a fiat or crypto currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if _, ok := validCurrencies[currency]; !ok {
		return fmt.Errorf("%w: %s is not a supported currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// CurrencyKind returns the wallet kind a currency code belongs to.
func CurrencyKind(currency string) WalletKind {
	kind, ok := validCurrencies[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		return WalletKindFiat
	}
	return kind
}

// ValidateAmount validates a transaction amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount := decimal.RequireFromString(MinAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinAmount)
	}

	maxAmount := decimal.RequireFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("%w: at most %d are allowed", ErrAmountTooPrecise, MaxAmountScale)
	}

	return nil
}

// ValidateOwnerID validates the id of a wallet owner.
func ValidateOwnerID(ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return fmt.Errorf("%w: owner id cannot be empty", ErrInvalidOwner)
	}
	if len(ownerID) > MaxOwnerIDLength {
		return fmt.Errorf("%w: owner id exceeds %d characters", ErrInvalidOwner, MaxOwnerIDLength)
	}
	return nil
}

// ValidateDescription validates free text attached to a transaction.
func ValidateDescription(s string) error {
	if len(s) > MaxDescriptionLength {
		return fmt.Errorf("%w: %d characters, limit %d", ErrDescriptionTooLong, len(s), MaxDescriptionLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
