package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/metrics"
)

var (
	// ErrCacheMiss is returned by Cache.Get when the key does not exist.
	ErrCacheMiss = errors.New("cache miss")

	// ErrNoReport is returned when no reconciliation has been cached yet.
	ErrNoReport = errors.New("no reconciliation report available")
)

// reconciliationPageSize bounds each wallet page read during a run.
const reconciliationPageSize = 1000

// ReconciliationUseCase checks that every wallet balance equals the net of
// its settled transactions.
type ReconciliationUseCase struct {
	txManager  TxManager
	walletRepo WalletRepository
	txRepo     TransactionRepository
	cache      Cache
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewReconciliationUseCase creates a new reconciliation use case.
// cache may be nil, in which case reports are not kept.
func NewReconciliationUseCase(
	txManager TxManager,
	walletRepo WalletRepository,
	txRepo TransactionRepository,
	cache Cache,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		txRepo:     txRepo,
		cache:      cache,
		metrics:    metrics,
		logger:     zerolog.Nop(),
	}
}

// WithLogger sets the logger used for discrepancies.
func (uc *ReconciliationUseCase) WithLogger(l zerolog.Logger) *ReconciliationUseCase {
	uc.logger = l.With().Str("component", "reconciliation").Logger()
	return uc
}

// ReconciliationResult represents the check of one wallet.
type ReconciliationResult struct {
	OwnerID           string          `json:"ownerId"`
	Currency          string          `json:"currency"`
	RecordedBalance   decimal.Decimal `json:"recordedBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"isReconciled"`
}

// ReconciliationReport represents a full reconciliation run.
type ReconciliationReport struct {
	TotalWallets      int                     `json:"totalWallets"`
	ReconciledWallets int                     `json:"reconciledWallets"`
	Discrepancies     []*ReconciliationResult `json:"discrepancies"`
	Consistent        bool                    `json:"consistent"`
	CheckedAt         time.Time               `json:"checkedAt"`
}

// Run reconciles every wallet against the transaction log and caches the report.
// Totals and wallets are read from one snapshot, so writes committed during
// the run cannot show up on only one side.
func (uc *ReconciliationUseCase) Run(ctx context.Context) (*ReconciliationReport, error) {
	report, err := uc.check(ctx)
	if err != nil {
		uc.recordRun("error")
		return nil, err
	}

	for _, d := range report.Discrepancies {
		uc.logger.Error().
			Str("owner_id", d.OwnerID).
			Str("currency", d.Currency).
			Str("recorded", d.RecordedBalance.String()).
			Str("calculated", d.CalculatedBalance.String()).
			Msg("wallet balance does not match transaction log")
	}

	if report.Consistent {
		uc.recordRun("consistent")
	} else {
		uc.recordRun("inconsistent")
	}
	if uc.metrics != nil {
		uc.metrics.ReconciliationDiscrepancies.Set(float64(len(report.Discrepancies)))
	}

	uc.store(ctx, report)

	return report, nil
}

func (uc *ReconciliationUseCase) check(ctx context.Context) (*ReconciliationReport, error) {
	tx, err := uc.txManager.BeginSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	totals, err := uc.txRepo.SettledTotals(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("load settled totals: %w", err)
	}

	expected := make(map[domain.WalletKey]decimal.Decimal, len(totals))
	for _, total := range totals {
		expected[domain.NewWalletKey(total.OwnerID, total.Currency)] = total.Net
	}

	report := &ReconciliationReport{
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for offset := 0; ; offset += reconciliationPageSize {
		wallets, err := uc.walletRepo.List(ctx, tx, reconciliationPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list wallets: %w", err)
		}

		for _, wallet := range wallets {
			key := wallet.Key()
			result := reconcile(key, wallet.Balance, expected[key])
			delete(expected, key)

			report.TotalWallets++
			if result.IsReconciled {
				report.ReconciledWallets++
			} else {
				report.Discrepancies = append(report.Discrepancies, result)
			}
		}

		if len(wallets) < reconciliationPageSize {
			break
		}
	}

	// Settled activity for a wallet that does not exist.
	for key, net := range expected {
		if net.IsZero() {
			continue
		}
		report.Discrepancies = append(report.Discrepancies, reconcile(key, decimal.Zero, net))
	}

	sort.Slice(report.Discrepancies, func(i, j int) bool {
		a, b := report.Discrepancies[i], report.Discrepancies[j]
		if a.OwnerID != b.OwnerID {
			return a.OwnerID < b.OwnerID
		}
		return a.Currency < b.Currency
	})
	report.Consistent = len(report.Discrepancies) == 0

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("end snapshot: %w", err)
	}

	return report, nil
}

// LastReport returns the most recent cached report.
func (uc *ReconciliationUseCase) LastReport(ctx context.Context) (*ReconciliationReport, error) {
	if uc.cache == nil {
		return nil, ErrNoReport
	}

	data, err := uc.cache.Get(ctx, ReconciliationReportKey)
	if errors.Is(err, ErrCacheMiss) {
		return nil, ErrNoReport
	}
	if err != nil {
		return nil, err
	}

	var report ReconciliationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}

	return &report, nil
}

func (uc *ReconciliationUseCase) store(ctx context.Context, report *ReconciliationReport) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("failed to encode reconciliation report")
		return
	}

	if err := uc.cache.Set(ctx, ReconciliationReportKey, data, ReconciliationReportTTL); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to cache reconciliation report")
	}
}

func (uc *ReconciliationUseCase) recordRun(result string) {
	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.WithLabelValues(result).Inc()
	}
}

func reconcile(key domain.WalletKey, recorded, calculated decimal.Decimal) *ReconciliationResult {
	return &ReconciliationResult{
		OwnerID:           key.OwnerID,
		Currency:          key.Currency,
		RecordedBalance:   recorded,
		CalculatedBalance: calculated,
		Difference:        recorded.Sub(calculated),
		IsReconciled:      recorded.Equal(calculated),
	}
}
