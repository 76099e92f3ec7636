package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

type transactionServiceStub struct {
	submitFn   func(ctx context.Context, input usecase.SubmitInput) (*domain.Transaction, error)
	getFn      func(ctx context.Context, id string) (*domain.Transaction, error)
	activityFn func(ctx context.Context, ownerID string, limit, offset int) (*usecase.ActivityPage, error)
}

func (s *transactionServiceStub) Submit(ctx context.Context, input usecase.SubmitInput) (*domain.Transaction, error) {
	return s.submitFn(ctx, input)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, id)
}

func (s *transactionServiceStub) ListActivity(ctx context.Context, ownerID string, limit, offset int) (*usecase.ActivityPage, error) {
	return s.activityFn(ctx, ownerID, limit, offset)
}

func sampleTransaction(id, owner string, kind domain.TransactionKind) *domain.Transaction {
	return &domain.Transaction{
		ID:        id,
		OwnerID:   owner,
		Kind:      kind,
		Status:    domain.StatusPending,
		Amount:    decimal.NewFromInt(100),
		Currency:  "USD",
		Details:   domain.DepositDetails{AssetType: domain.WalletKindFiat, RequestedCurrency: "USD"},
		CreatedAt: time.Now(),
	}
}

func TestTransactionHandler_SubmitDeposit(t *testing.T) {
	var captured usecase.SubmitInput
	h := NewTransactionHandler(&transactionServiceStub{
		submitFn: func(ctx context.Context, input usecase.SubmitInput) (*domain.Transaction, error) {
			captured = input
			return sampleTransaction("tx-1", input.OwnerID, input.Kind), nil
		},
	})

	body, _ := json.Marshal(dto.SubmitDepositRequest{Amount: decimal.NewFromInt(100), Currency: "USD"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/transactions/deposits", bytes.NewReader(body)), "alice", domain.RoleUser)
	rec := httptest.NewRecorder()

	h.SubmitDeposit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.OwnerID != "alice" || captured.Kind != domain.KindDeposit {
		t.Fatalf("expected deposit for alice, got %+v", captured)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "tx-1" || resp.Status != "pending" || resp.Type != "deposit" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestTransactionHandler_SubmitWithdrawalInsufficientBalance(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{
		submitFn: func(ctx context.Context, input usecase.SubmitInput) (*domain.Transaction, error) {
			return nil, domain.ErrInsufficientBalance
		},
	})

	body, _ := json.Marshal(dto.SubmitWithdrawalRequest{
		Amount: decimal.NewFromInt(100), Currency: "USD", WithdrawalMethod: "bank", AccountDetails: "IBAN",
	})
	req := asUser(httptest.NewRequest(http.MethodPost, "/transactions/withdrawals", bytes.NewReader(body)), "alice", domain.RoleUser)
	rec := httptest.NewRecorder()

	h.SubmitWithdrawal(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestTransactionHandler_SubmitRejectsBadBody(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{
		submitFn: func(ctx context.Context, input usecase.SubmitInput) (*domain.Transaction, error) {
			t.Fatal("Submit should not be called")
			return nil, nil
		},
	})

	for _, body := range []string{"{bad json", `{"amount":"1","currency":"USD","surprise":true}`} {
		req := asUser(httptest.NewRequest(http.MethodPost, "/transactions/deposits", bytes.NewBufferString(body)), "alice", domain.RoleUser)
		rec := httptest.NewRecorder()

		h.SubmitDeposit(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestTransactionHandler_RequiresUser(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/activity", nil)
	rec := httptest.NewRecorder()

	h.Activity(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTransactionHandler_GetHidesOtherOwners(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			return sampleTransaction(id, "bob", domain.KindDeposit), nil
		},
	})

	tests := []struct {
		name   string
		user   string
		role   domain.Role
		status int
	}{
		{"owner", "bob", domain.RoleUser, http.StatusOK},
		{"other user", "alice", domain.RoleUser, http.StatusNotFound},
		{"admin", "admin-1", domain.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/transactions/tx-9", nil)
			req = withURLParam(asUser(req, tt.user, tt.role), "id", "tx-9")
			rec := httptest.NewRecorder()

			h.Get(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestTransactionHandler_Activity(t *testing.T) {
	var gotLimit, gotOffset int
	h := NewTransactionHandler(&transactionServiceStub{
		activityFn: func(ctx context.Context, ownerID string, limit, offset int) (*usecase.ActivityPage, error) {
			gotLimit, gotOffset = limit, offset
			return &usecase.ActivityPage{
				Items:      []*domain.Transaction{sampleTransaction("tx-1", ownerID, domain.KindDeposit)},
				TotalCount: 7,
			}, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/activity?offset=5", nil), "alice", domain.RoleUser)
	rec := httptest.NewRecorder()

	h.Activity(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotLimit != usecase.DefaultActivityLimit || gotOffset != 5 {
		t.Fatalf("expected limit %d offset 5, got %d/%d", usecase.DefaultActivityLimit, gotLimit, gotOffset)
	}

	var resp dto.ActivityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalCount != 7 || len(resp.Items) != 1 {
		t.Fatalf("unexpected activity %+v", resp)
	}
}
