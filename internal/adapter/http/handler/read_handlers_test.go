package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

type walletServiceStub struct {
	balanceFn func(ctx context.Context, ownerID, currency string) (*domain.Wallet, error)
	listFn    func(ctx context.Context, ownerID string) ([]*domain.Wallet, error)
}

func (s *walletServiceStub) GetBalance(ctx context.Context, ownerID, currency string) (*domain.Wallet, error) {
	return s.balanceFn(ctx, ownerID, currency)
}

func (s *walletServiceStub) ListWallets(ctx context.Context, ownerID string) ([]*domain.Wallet, error) {
	return s.listFn(ctx, ownerID)
}

func TestWalletHandler_Balance(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		balanceFn: func(ctx context.Context, ownerID, currency string) (*domain.Wallet, error) {
			return &domain.Wallet{OwnerID: ownerID, Currency: currency, Balance: decimal.Zero}, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/wallets/balance?currency=USD", nil), "alice", domain.RoleUser)
	rec := httptest.NewRecorder()
	h.Balance(rec, req)

	var resp dto.WalletResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rec.Code != http.StatusOK || resp.Balance != "0" || resp.OwnerID != "alice" {
		t.Fatalf("unexpected balance response %d %+v", rec.Code, resp)
	}

	req = asUser(httptest.NewRequest(http.MethodGet, "/wallets/balance", nil), "alice", domain.RoleUser)
	rec = httptest.NewRecorder()
	h.Balance(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without currency, got %d", rec.Code)
	}
}

func TestWalletHandler_List(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		listFn: func(ctx context.Context, ownerID string) ([]*domain.Wallet, error) {
			return []*domain.Wallet{
				{OwnerID: ownerID, Currency: "USD", Balance: decimal.NewFromInt(10)},
				{OwnerID: ownerID, Currency: "BTC", Balance: decimal.RequireFromString("0.1")},
			}, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/wallets", nil), "alice", domain.RoleUser)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	var resp dto.ListWalletsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Wallets) != 2 {
		t.Fatalf("expected 2 wallets, got %d", len(resp.Wallets))
	}
}

type reconciliationServiceStub struct {
	report *usecase.ReconciliationReport
	err    error
}

func (s *reconciliationServiceStub) Run(context.Context) (*usecase.ReconciliationReport, error) {
	return s.report, s.err
}

func (s *reconciliationServiceStub) LastReport(context.Context) (*usecase.ReconciliationReport, error) {
	return s.report, s.err
}

func TestReconciliationHandler(t *testing.T) {
	h := NewReconciliationHandler(&reconciliationServiceStub{
		report: &usecase.ReconciliationReport{TotalWallets: 2, ReconciledWallets: 2, Consistent: true, CheckedAt: time.Now()},
	})

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodGet, "/admin/reconciliation", nil))

	var report usecase.ReconciliationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if rec.Code != http.StatusOK || !report.Consistent || report.TotalWallets != 2 {
		t.Fatalf("unexpected report %d %+v", rec.Code, report)
	}

	h = NewReconciliationHandler(&reconciliationServiceStub{err: usecase.ErrNoReport})
	rec = httptest.NewRecorder()
	h.Last(rec, httptest.NewRequest(http.MethodGet, "/admin/reconciliation/last", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without report, got %d", rec.Code)
	}
}

type auditServiceStub struct {
	filter domain.AuditFilter
	err    error
}

func (s *auditServiceStub) List(_ context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	s.filter = filter
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.AuditLog{{ID: "a-1", ResourceID: filter.ResourceID, Status: "success"}}, nil
}

func TestAuditHandler_List(t *testing.T) {
	stub := &auditServiceStub{}
	h := NewAuditHandler(stub)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/admin/audit?resource_id=tx-1&start_date=2024-01-01T00:00:00Z&limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.filter.ResourceID != "tx-1" || stub.filter.Limit != 5 || stub.filter.StartDate == nil {
		t.Fatalf("unexpected filter %+v", stub.filter)
	}

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/admin/audit?end_date=yesterday", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}

	stub.err = errors.New("db down")
	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/admin/audit", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHealthHandler_DisabledDependencies(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rec.Code != http.StatusOK || body["postgres"] != "disabled" {
		t.Fatalf("unexpected readiness %d %+v", rec.Code, body)
	}

	rec = httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
