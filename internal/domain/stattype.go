package domain

import (
	"fmt"
	"strings"
)

// StatType is the dashboard figure an admin adjustment is meant to move.
type StatType string

const (
	StatTypeBalance  StatType = "balance"
	StatTypeInvested StatType = "invested"
	StatTypeEarnings StatType = "earnings"
)

// IsValid reports whether s is a known stat type.
func (s StatType) IsValid() bool {
	return s == StatTypeBalance || s == StatTypeInvested || s == StatTypeEarnings
}

// KindPolicy maps the stat type of an admin adjustment to the transaction
// kind that gets recorded.
type KindPolicy struct {
	Credit map[StatType]TransactionKind
	Debit  map[StatType]TransactionKind
}

// DefaultKindPolicy records earnings credits as profit, other credits as
// deposits, and every debit as a loss.
func DefaultKindPolicy() KindPolicy {
	return KindPolicy{
		Credit: map[StatType]TransactionKind{
			StatTypeBalance:  KindDeposit,
			StatTypeInvested: KindDeposit,
			StatTypeEarnings: KindProfit,
		},
		Debit: map[StatType]TransactionKind{
			StatTypeBalance:  KindLoss,
			StatTypeInvested: KindLoss,
			StatTypeEarnings: KindLoss,
		},
	}
}

// ParseKindPolicy builds a policy from stat type to kind string maps, falling
// back to the defaults for missing entries.
func ParseKindPolicy(credit, debit map[string]string) (KindPolicy, error) {
	policy := DefaultKindPolicy()

	for st, k := range credit {
		statType, kind := StatType(strings.ToLower(st)), TransactionKind(strings.ToLower(k))
		if !statType.IsValid() {
			return KindPolicy{}, fmt.Errorf("%w: %q", ErrInvalidStatType, st)
		}
		if !kind.IsCredit() {
			return KindPolicy{}, fmt.Errorf("%w: %q is not a credit kind", ErrInvalidKind, k)
		}
		policy.Credit[statType] = kind
	}

	for st, k := range debit {
		statType, kind := StatType(strings.ToLower(st)), TransactionKind(strings.ToLower(k))
		if !statType.IsValid() {
			return KindPolicy{}, fmt.Errorf("%w: %q", ErrInvalidStatType, st)
		}
		if !kind.IsDebit() {
			return KindPolicy{}, fmt.Errorf("%w: %q is not a debit kind", ErrInvalidKind, k)
		}
		policy.Debit[statType] = kind
	}

	return policy, nil
}

// CreditKind returns the kind recorded for an admin credit.
func (p KindPolicy) CreditKind(st StatType) (TransactionKind, error) {
	kind, ok := p.Credit[st]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatType, st)
	}
	return kind, nil
}

// DebitKind returns the kind recorded for an admin debit.
func (p KindPolicy) DebitKind(st StatType) (TransactionKind, error) {
	kind, ok := p.Debit[st]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatType, st)
	}
	return kind, nil
}
