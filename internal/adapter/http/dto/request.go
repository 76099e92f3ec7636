package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// SubmitDepositRequest represents a user request to deposit funds.
type SubmitDepositRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	AssetType   string          `json:"assetType,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitDepositRequest) ToUseCaseInput(ownerID string) usecase.SubmitInput {
	return usecase.SubmitInput{
		OwnerID:   ownerID,
		ActorID:   ownerID,
		Kind:      domain.KindDeposit,
		Amount:    r.Amount,
		Currency:  r.Currency,
		AssetType: domain.WalletKind(strings.ToLower(r.AssetType)),
		Note:      r.Description,
	}
}

// SubmitWithdrawalRequest represents a user request to withdraw funds.
type SubmitWithdrawalRequest struct {
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	AssetType        string          `json:"assetType,omitempty"`
	WithdrawalMethod string          `json:"withdrawalMethod"`
	AccountDetails   string          `json:"accountDetails"`
	Description      string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitWithdrawalRequest) ToUseCaseInput(ownerID string) usecase.SubmitInput {
	return usecase.SubmitInput{
		OwnerID:          ownerID,
		ActorID:          ownerID,
		Kind:             domain.KindWithdrawal,
		Amount:           r.Amount,
		Currency:         r.Currency,
		AssetType:        domain.WalletKind(strings.ToLower(r.AssetType)),
		WithdrawalMethod: r.WithdrawalMethod,
		Destination:      r.AccountDetails,
		Note:             r.Description,
	}
}

// AdjustWalletRequest represents a direct admin credit or debit.
type AdjustWalletRequest struct {
	OwnerID     string          `json:"ownerId"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	StatType    string          `json:"statType"`
	Description string          `json:"description,omitempty"`
}

// Validate checks fields the use case cannot default.
func (r *AdjustWalletRequest) Validate() error {
	if strings.TrimSpace(r.OwnerID) == "" {
		return fmt.Errorf("%w: ownerId is required", domain.ErrInvalidOwner)
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *AdjustWalletRequest) ToUseCaseInput(actorID string) usecase.AdjustInput {
	statType := domain.StatTypeBalance
	if r.StatType != "" {
		statType = domain.StatType(strings.ToLower(r.StatType))
	}
	return usecase.AdjustInput{
		OwnerID:  r.OwnerID,
		ActorID:  actorID,
		Amount:   r.Amount,
		Currency: r.Currency,
		StatType: statType,
		Note:     r.Description,
	}
}
