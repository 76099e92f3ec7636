package dto

import (
	"time"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId"`
	ActorID     string         `json:"actorId,omitempty"`
	Type        string         `json:"type"`
	Status      string         `json:"status"`
	ClearedFrom string         `json:"clearedFrom,omitempty"`
	Amount      string         `json:"amount"`
	Currency    string         `json:"currency"`
	Details     map[string]any `json:"details"`
	CreatedAt   time.Time      `json:"createdAt"`
	ResolvedAt  *time.Time     `json:"resolvedAt,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:         t.ID,
		OwnerID:    t.OwnerID,
		ActorID:    t.ActorID,
		Type:       string(t.Kind),
		Status:     string(t.Status),
		Amount:     t.Amount.String(),
		Currency:   t.Currency,
		Details:    domain.DetailsMap(t.Details),
		CreatedAt:  t.CreatedAt,
		ResolvedAt: t.ResolvedAt,
	}
	if t.ClearedFrom != nil {
		resp.ClearedFrom = string(*t.ClearedFrom)
	}
	return resp
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse represents an admin queue page.
type ListTransactionsResponse struct {
	Items []*TransactionResponse `json:"items"`
}

// ActivityResponse represents one page of a user's activity feed.
type ActivityResponse struct {
	Items      []*TransactionResponse `json:"items"`
	TotalCount int64                  `json:"totalCount"`
}

// ActivityFromUseCase converts an activity page to a response.
func ActivityFromUseCase(p *usecase.ActivityPage) *ActivityResponse {
	return &ActivityResponse{
		Items:      TransactionsFromDomain(p.Items),
		TotalCount: p.TotalCount,
	}
}

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	OwnerID   string     `json:"ownerId"`
	Currency  string     `json:"currency"`
	Kind      string     `json:"kind"`
	Balance   string     `json:"balance"`
	Version   int64      `json:"version"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	resp := &WalletResponse{
		OwnerID:  w.OwnerID,
		Currency: w.Currency,
		Kind:     string(w.Kind),
		Balance:  w.Balance.String(),
		Version:  w.Version,
	}
	if !w.UpdatedAt.IsZero() {
		at := w.UpdatedAt
		resp.UpdatedAt = &at
	}
	return resp
}

// ListWalletsResponse represents the wallets of one owner.
type ListWalletsResponse struct {
	Wallets []*WalletResponse `json:"wallets"`
}

// WalletsFromDomain converts domain wallets to a response.
func WalletsFromDomain(wallets []*domain.Wallet) *ListWalletsResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return &ListWalletsResponse{Wallets: result}
}

// ClearDepositsResponse reports how many deposits were cleared.
type ClearDepositsResponse struct {
	ClearedCount int64 `json:"clearedCount"`
}

// AuditLogResponse represents an audit entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	ActorID      string         `json:"actorId"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resourceType"`
	ResourceID   string         `json:"resourceId"`
	RequestID    string         `json:"requestId,omitempty"`
	BeforeState  map[string]any `json:"beforeState,omitempty"`
	AfterState   map[string]any `json:"afterState,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// AuditLogsFromDomain converts audit entries to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			ActorID:      l.ActorID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
