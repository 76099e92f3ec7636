package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Details is the typed metadata attached to a transaction. The concrete
// variant depends on who created the transaction and its kind.
type Details interface {
	Asset() WalletKind
	Summary() string
	validateFor(kind TransactionKind) error
}

// DepositDetails describes a user-submitted deposit.
type DepositDetails struct {
	AssetType         WalletKind
	RequestedCurrency string
	Description       string
}

func (d DepositDetails) Asset() WalletKind { return d.AssetType }
func (d DepositDetails) Summary() string   { return d.Description }

func (d DepositDetails) validateFor(kind TransactionKind) error {
	if kind != KindDeposit {
		return fmt.Errorf("%w: deposit details on %s", ErrInvalidDetails, kind)
	}
	if !d.AssetType.IsValid() {
		return fmt.Errorf("%w: asset type %q", ErrInvalidDetails, d.AssetType)
	}
	return nil
}

// WithdrawalDetails describes a user-submitted withdrawal and where to pay it out.
type WithdrawalDetails struct {
	AssetType         WalletKind
	RequestedCurrency string
	Method            string
	Destination       string
	Description       string
}

func (d WithdrawalDetails) Asset() WalletKind { return d.AssetType }
func (d WithdrawalDetails) Summary() string   { return d.Description }

func (d WithdrawalDetails) validateFor(kind TransactionKind) error {
	if kind != KindWithdrawal {
		return fmt.Errorf("%w: withdrawal details on %s", ErrInvalidDetails, kind)
	}
	if !d.AssetType.IsValid() {
		return fmt.Errorf("%w: asset type %q", ErrInvalidDetails, d.AssetType)
	}
	if strings.TrimSpace(d.Method) == "" {
		return fmt.Errorf("%w: withdrawal method is required", ErrInvalidDetails)
	}
	if strings.TrimSpace(d.Destination) == "" {
		return fmt.Errorf("%w: withdrawal destination is required", ErrInvalidDetails)
	}
	return nil
}

// AdjustmentDetails describes a credit or debit made directly by an admin.
// The recorded kind comes from the stat type policy, so any kind is accepted.
type AdjustmentDetails struct {
	AssetType         WalletKind
	RequestedCurrency string
	StatType          StatType
	Description       string
}

func (d AdjustmentDetails) Asset() WalletKind { return d.AssetType }
func (d AdjustmentDetails) Summary() string   { return d.Description }

func (d AdjustmentDetails) validateFor(kind TransactionKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: adjustment details on %s", ErrInvalidDetails, kind)
	}
	if !d.AssetType.IsValid() {
		return fmt.Errorf("%w: asset type %q", ErrInvalidDetails, d.AssetType)
	}
	if !d.StatType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatType, d.StatType)
	}
	return nil
}

// detailsRecord is the flat wire and storage form of Details.
type detailsRecord struct {
	Variant          string `json:"variant"`
	Currency         string `json:"currency,omitempty"`
	Type             string `json:"type"`
	Description      string `json:"description"`
	WithdrawalMethod string `json:"withdrawalMethod,omitempty"`
	AccountDetails   string `json:"accountDetails,omitempty"`
	StatType         string `json:"statType,omitempty"`
}

const (
	variantDeposit    = "deposit"
	variantWithdrawal = "withdrawal"
	variantAdjustment = "adjustment"
)

// MarshalDetails encodes d into its flat JSON form.
func MarshalDetails(d Details) ([]byte, error) {
	rec, err := toRecord(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// DetailsMap returns the flat form of d for API responses.
func DetailsMap(d Details) map[string]any {
	rec, err := toRecord(d)
	if err != nil {
		return nil
	}
	m := map[string]any{
		"type":        rec.Type,
		"description": rec.Description,
	}
	if rec.Currency != "" {
		m["currency"] = rec.Currency
	}
	if rec.WithdrawalMethod != "" {
		m["withdrawalMethod"] = rec.WithdrawalMethod
	}
	if rec.AccountDetails != "" {
		m["accountDetails"] = rec.AccountDetails
	}
	if rec.StatType != "" {
		m["statType"] = rec.StatType
	}
	return m
}

// UnmarshalDetails decodes the flat JSON form produced by MarshalDetails.
func UnmarshalDetails(data []byte) (Details, error) {
	var rec detailsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDetails, err)
	}

	switch rec.Variant {
	case variantDeposit:
		return DepositDetails{
			AssetType:         WalletKind(rec.Type),
			RequestedCurrency: rec.Currency,
			Description:       rec.Description,
		}, nil
	case variantWithdrawal:
		return WithdrawalDetails{
			AssetType:         WalletKind(rec.Type),
			RequestedCurrency: rec.Currency,
			Method:            rec.WithdrawalMethod,
			Destination:       rec.AccountDetails,
			Description:       rec.Description,
		}, nil
	case variantAdjustment:
		return AdjustmentDetails{
			AssetType:         WalletKind(rec.Type),
			RequestedCurrency: rec.Currency,
			StatType:          StatType(rec.StatType),
			Description:       rec.Description,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", ErrInvalidDetails, rec.Variant)
	}
}

func toRecord(d Details) (detailsRecord, error) {
	switch v := d.(type) {
	case DepositDetails:
		return detailsRecord{
			Variant:     variantDeposit,
			Currency:    v.RequestedCurrency,
			Type:        string(v.AssetType),
			Description: v.Description,
		}, nil
	case WithdrawalDetails:
		return detailsRecord{
			Variant:          variantWithdrawal,
			Currency:         v.RequestedCurrency,
			Type:             string(v.AssetType),
			Description:      v.Description,
			WithdrawalMethod: v.Method,
			AccountDetails:   v.Destination,
		}, nil
	case AdjustmentDetails:
		return detailsRecord{
			Variant:     variantAdjustment,
			Currency:    v.RequestedCurrency,
			Type:        string(v.AssetType),
			Description: v.Description,
			StatType:    string(v.StatType),
		}, nil
	default:
		return detailsRecord{}, fmt.Errorf("%w: unsupported details %T", ErrInvalidDetails, d)
	}
}
