package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/metrics"
)

// Decision is the outcome an admin picks for a pending transaction.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDecline Decision = "decline"
)

// IsValid reports whether d is approve or decline.
func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionDecline
}

// LedgerUseCase is the ledger engine. It owns every transition of the
// transaction log and is the only caller of WalletRepository.ApplyDelta.
type LedgerUseCase struct {
	txManager          TxManager
	walletRepo         WalletRepository
	txRepo             TransactionRepository
	outboxRepo         OutboxRepository
	auditRepo          AuditRepository
	idGen              IDGenerator
	metrics            *metrics.Metrics
	retrier            Retrier
	logger             zerolog.Logger
	policy             domain.KindPolicy
	settlementCurrency string
	now                func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TxManager,
	walletRepo WalletRepository,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		txRepo:     txRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    metrics,
		logger:     zerolog.Nop(),
		policy:     domain.DefaultKindPolicy(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithRetrier retries whole ledger operations on transient storage errors.
func (uc *LedgerUseCase) WithRetrier(r Retrier) *LedgerUseCase {
	uc.retrier = r
	return uc
}

// WithLogger sets the logger used for state transitions.
func (uc *LedgerUseCase) WithLogger(l zerolog.Logger) *LedgerUseCase {
	uc.logger = l.With().Str("component", "ledger").Logger()
	return uc
}

// WithKindPolicy sets how admin adjustments are recorded.
func (uc *LedgerUseCase) WithKindPolicy(p domain.KindPolicy) *LedgerUseCase {
	uc.policy = p
	return uc
}

// WithSettlementCurrency settles every request into a wallet of currency.
// An empty currency settles into the requested currency.
func (uc *LedgerUseCase) WithSettlementCurrency(currency string) *LedgerUseCase {
	uc.settlementCurrency = strings.ToUpper(strings.TrimSpace(currency))
	return uc
}

// SubmitInput represents a user request to move money in or out of a wallet.
type SubmitInput struct {
	OwnerID          string
	ActorID          string
	Kind             domain.TransactionKind
	Amount           decimal.Decimal
	Currency         string
	AssetType        domain.WalletKind
	WithdrawalMethod string
	Destination      string
	Note             string
}

// ResolveInput represents an admin decision on a pending transaction.
type ResolveInput struct {
	TransactionID string
	ActorID       string
	Decision      Decision
}

// AdjustInput represents a direct admin credit or debit.
type AdjustInput struct {
	OwnerID  string
	ActorID  string
	Amount   decimal.Decimal
	Currency string
	StatType domain.StatType
	Note     string
}

// ActivityPage is one page of an owner's transaction history.
type ActivityPage struct {
	Items      []*domain.Transaction
	TotalCount int64
}

// Submit records a pending deposit or withdrawal. Withdrawals are checked
// against the committed balance of the owner's wallet.
func (uc *LedgerUseCase) Submit(ctx context.Context, input SubmitInput) (*domain.Transaction, error) {
	start := time.Now()

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Kind != domain.KindDeposit && input.Kind != domain.KindWithdrawal {
		return nil, fmt.Errorf("%w: %q cannot be submitted", domain.ErrInvalidKind, input.Kind)
	}
	if err := domain.ValidateOwnerID(input.OwnerID); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Note); err != nil {
		return nil, err
	}

	requested := strings.ToUpper(strings.TrimSpace(input.Currency))
	t := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		OwnerID:   input.OwnerID,
		ActorID:   actorOrSystem(input.ActorID),
		Kind:      input.Kind,
		Amount:    input.Amount,
		Currency:  uc.walletCurrency(requested),
		Status:    domain.StatusPending,
		Details:   submitDetails(input, requested),
		CreatedAt: uc.now(),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	err := uc.withRetry(ctx, func() error {
		return uc.submit(ctx, t)
	})
	if err != nil {
		uc.recordError("submit", err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsSubmitted.WithLabelValues(string(t.Kind)).Inc()
		uc.metrics.LedgerDuration.WithLabelValues("submit").Observe(time.Since(start).Seconds())
	}

	uc.log(ctx).Info().
		Str("transaction_id", t.ID).
		Str("owner_id", t.OwnerID).
		Str("kind", string(t.Kind)).
		Str("amount", t.Amount.String()).
		Str("currency", t.Currency).
		Msg("transaction submitted")

	return t, nil
}

func (uc *LedgerUseCase) submit(ctx context.Context, t *domain.Transaction) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if t.Kind == domain.KindWithdrawal {
		wallet, err := uc.lockWallet(txCtx, tx, t.OwnerID, t.Currency)
		if err != nil {
			return err
		}
		if err := ensureFunds(wallet, t); err != nil {
			return err
		}
	}

	if err := uc.txRepo.Create(txCtx, tx, t); err != nil {
		return err
	}

	if err := uc.emit(txCtx, tx, domain.AggregateTypeTransaction, t.ID, domain.EventTypeTransactionSubmitted, domain.TransactionEventPayload(t)); err != nil {
		return err
	}

	if err := uc.audit(txCtx, tx, auditEntry{
		actorID:      t.ActorID,
		action:       domain.AuditActionTransactionSubmit,
		resourceType: domain.ResourceTypeTransaction,
		resourceID:   t.ID,
		after:        domain.TransactionState(t),
	}); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// Resolve approves or declines a pending transaction. Approval applies the
// balance effect in the same database transaction as the status change.
func (uc *LedgerUseCase) Resolve(ctx context.Context, input ResolveInput) (*domain.Transaction, error) {
	start := time.Now()

	if !input.Decision.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDecision, input.Decision)
	}

	var resolved *domain.Transaction
	err := uc.withRetry(ctx, func() error {
		var err error
		resolved, err = uc.resolve(ctx, input)
		return err
	})
	if err != nil {
		uc.recordError(string(input.Decision), err)
		uc.log(ctx).Warn().
			Err(err).
			Str("transaction_id", input.TransactionID).
			Str("decision", string(input.Decision)).
			Msg("transaction not resolved")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsResolved.WithLabelValues(string(resolved.Kind), string(input.Decision)).Inc()
		uc.metrics.LedgerDuration.WithLabelValues(string(input.Decision)).Observe(time.Since(start).Seconds())
		if input.Decision == DecisionApprove {
			uc.metrics.TransactionAmount.WithLabelValues(string(resolved.Kind)).Observe(resolved.Amount.InexactFloat64())
		}
	}

	uc.log(ctx).Info().
		Str("transaction_id", resolved.ID).
		Str("owner_id", resolved.OwnerID).
		Str("kind", string(resolved.Kind)).
		Str("status", string(resolved.Status)).
		Msg("transaction resolved")

	return resolved, nil
}

// Approve is Resolve with DecisionApprove.
func (uc *LedgerUseCase) Approve(ctx context.Context, transactionID, actorID string) (*domain.Transaction, error) {
	return uc.Resolve(ctx, ResolveInput{TransactionID: transactionID, ActorID: actorID, Decision: DecisionApprove})
}

// Decline is Resolve with DecisionDecline.
func (uc *LedgerUseCase) Decline(ctx context.Context, transactionID, actorID string) (*domain.Transaction, error) {
	return uc.Resolve(ctx, ResolveInput{TransactionID: transactionID, ActorID: actorID, Decision: DecisionDecline})
}

func (uc *LedgerUseCase) resolve(ctx context.Context, input ResolveInput) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock order: transaction row, then wallet row.
	current, err := uc.txRepo.GetByIDForUpdate(txCtx, tx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	next := domain.StatusDeclined
	if input.Decision == DecisionApprove {
		next = domain.StatusCompleted
	}
	if current.Status != domain.StatusPending || !domain.CanTransition(current.Kind, current.Status, next) {
		return nil, fmt.Errorf("%w: transaction %s is %s", domain.ErrInvalidState, current.ID, current.Status)
	}

	actorID := actorOrSystem(input.ActorID)
	now := uc.now()

	updated, err := uc.txRepo.UpdateStatus(txCtx, tx, current.ID, domain.StatusPending, next, actorID, now)
	if err != nil {
		return nil, err
	}

	action := domain.AuditActionTransactionDecline
	eventType := domain.EventTypeTransactionDeclined

	if next == domain.StatusCompleted {
		action = domain.AuditActionTransactionApprove
		eventType = domain.EventTypeTransactionCompleted

		if current.Kind.IsDebit() {
			// Balance may have dropped since submission.
			wallet, err := uc.lockWallet(txCtx, tx, current.OwnerID, current.Currency)
			if err != nil {
				return nil, err
			}
			if err := ensureFunds(wallet, current); err != nil {
				return nil, err
			}
		}

		if err := uc.applyAndEmit(txCtx, tx, updated, now); err != nil {
			return nil, err
		}
	}

	if err := uc.emit(txCtx, tx, domain.AggregateTypeTransaction, updated.ID, eventType, domain.TransactionEventPayload(updated)); err != nil {
		return nil, err
	}

	if err := uc.audit(txCtx, tx, auditEntry{
		actorID:      actorID,
		action:       action,
		resourceType: domain.ResourceTypeTransaction,
		resourceID:   updated.ID,
		before:       domain.TransactionState(current),
		after:        domain.TransactionState(updated),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return updated, nil
}

// AdminCredit records a completed credit and applies it in one step.
func (uc *LedgerUseCase) AdminCredit(ctx context.Context, input AdjustInput) (*domain.Transaction, error) {
	return uc.adjust(ctx, input, true)
}

// AdminDebit records a completed debit and applies it in one step. It fails
// with domain.ErrInsufficientBalance when the wallet cannot cover amount.
func (uc *LedgerUseCase) AdminDebit(ctx context.Context, input AdjustInput) (*domain.Transaction, error) {
	return uc.adjust(ctx, input, false)
}

func (uc *LedgerUseCase) adjust(ctx context.Context, input AdjustInput, credit bool) (*domain.Transaction, error) {
	start := time.Now()

	operation := "admin_debit"
	if credit {
		operation = "admin_credit"
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateOwnerID(input.OwnerID); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Note); err != nil {
		return nil, err
	}

	statType := input.StatType
	if statType == "" {
		statType = domain.StatTypeBalance
	}

	var (
		kind domain.TransactionKind
		err  error
	)
	if credit {
		kind, err = uc.policy.CreditKind(statType)
	} else {
		kind, err = uc.policy.DebitKind(statType)
	}
	if err != nil {
		return nil, err
	}

	requested := strings.ToUpper(strings.TrimSpace(input.Currency))
	now := uc.now()
	t := &domain.Transaction{
		ID:         uc.idGen.Generate(),
		OwnerID:    input.OwnerID,
		ActorID:    actorOrSystem(input.ActorID),
		Kind:       kind,
		Amount:     input.Amount,
		Currency:   uc.walletCurrency(requested),
		Status:     domain.StatusCompleted,
		Details:    adjustmentDetails(input, kind, statType, requested, credit),
		CreatedAt:  now,
		ResolvedAt: &now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	err = uc.withRetry(ctx, func() error {
		return uc.adjustTx(ctx, t, credit)
	})
	if err != nil {
		uc.recordError(operation, err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AdminAdjustments.WithLabelValues(string(t.Kind)).Inc()
		uc.metrics.TransactionAmount.WithLabelValues(string(t.Kind)).Observe(t.Amount.InexactFloat64())
		uc.metrics.LedgerDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}

	uc.log(ctx).Info().
		Str("transaction_id", t.ID).
		Str("owner_id", t.OwnerID).
		Str("kind", string(t.Kind)).
		Str("amount", t.Amount.String()).
		Str("currency", t.Currency).
		Msg("wallet adjusted by admin")

	return t, nil
}

func (uc *LedgerUseCase) adjustTx(ctx context.Context, t *domain.Transaction, credit bool) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	var before *domain.Wallet
	if !credit {
		before, err = uc.lockWallet(txCtx, tx, t.OwnerID, t.Currency)
		if err != nil {
			return err
		}
		if err := ensureFunds(before, t); err != nil {
			return err
		}
	}

	if err := uc.txRepo.Create(txCtx, tx, t); err != nil {
		return err
	}

	wallet, err := uc.walletRepo.ApplyDelta(txCtx, tx, t.OwnerID, t.Currency, domain.CurrencyKind(t.Currency), t.SignedAmount(), *t.ResolvedAt)
	if err != nil {
		return err
	}

	if err := uc.emit(txCtx, tx, domain.AggregateTypeTransaction, t.ID, domain.EventTypeTransactionCompleted, domain.TransactionEventPayload(t)); err != nil {
		return err
	}
	if err := uc.emit(txCtx, tx, domain.AggregateTypeWallet, wallet.Key().String(), domain.EventTypeWalletAdjusted, domain.WalletEventPayload(wallet, t.ID)); err != nil {
		return err
	}

	action := domain.AuditActionWalletDebit
	if credit {
		action = domain.AuditActionWalletCredit
	}
	if err := uc.audit(txCtx, tx, auditEntry{
		actorID:      t.ActorID,
		action:       action,
		resourceType: domain.ResourceTypeWallet,
		resourceID:   wallet.Key().String(),
		before:       domain.WalletState(before),
		after:        domain.WalletState(wallet),
	}); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// ClearDeposits moves every deposit that is not yet cleared to cleared.
// It has no balance effect and returns the number of records changed.
func (uc *LedgerUseCase) ClearDeposits(ctx context.Context, actorID string) (int64, error) {
	start := time.Now()
	actorID = actorOrSystem(actorID)

	var cleared int64
	err := uc.withRetry(ctx, func() error {
		var err error
		cleared, err = uc.clearDeposits(ctx, actorID)
		return err
	})
	if err != nil {
		uc.recordError("clear", err)
		return 0, err
	}

	if uc.metrics != nil {
		uc.metrics.DepositsCleared.Add(float64(cleared))
		uc.metrics.LedgerDuration.WithLabelValues("clear").Observe(time.Since(start).Seconds())
	}

	uc.log(ctx).Info().Int64("cleared", cleared).Str("actor_id", actorID).Msg("deposits cleared")

	return cleared, nil
}

func (uc *LedgerUseCase) clearDeposits(ctx context.Context, actorID string) (int64, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := uc.now()
	cleared, err := uc.txRepo.ClearByKind(txCtx, tx, domain.KindDeposit, actorID, now)
	if err != nil {
		return 0, err
	}

	if cleared > 0 {
		payload := map[string]any{
			"kind":     string(domain.KindDeposit),
			"cleared":  cleared,
			"actor_id": actorID,
		}
		if err := uc.emit(txCtx, tx, domain.AggregateTypeTransaction, string(domain.KindDeposit), domain.EventTypeDepositsCleared, payload); err != nil {
			return 0, err
		}
	}

	if err := uc.audit(txCtx, tx, auditEntry{
		actorID:      actorID,
		action:       domain.AuditActionDepositsClear,
		resourceType: domain.ResourceTypeTransaction,
		resourceID:   string(domain.KindDeposit),
		after:        domain.JSON{"cleared": cleared},
	}); err != nil {
		return 0, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return 0, err
	}

	return cleared, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// ListActivity returns an owner's transactions, newest first, with the total count.
func (uc *LedgerUseCase) ListActivity(ctx context.Context, ownerID string, limit, offset int) (*ActivityPage, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	items, err := uc.txRepo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := uc.txRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &ActivityPage{Items: items, TotalCount: total}, nil
}

// ListQueue returns transactions matching filter, newest first.
func (uc *LedgerUseCase) ListQueue(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.txRepo.ListByKindAndStatus(ctx, filter)
}

// DepositQueue lists deposits that have not been cleared.
func (uc *LedgerUseCase) DepositQueue(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	return uc.ListQueue(ctx, domain.TransactionFilter{
		Kind:   domain.KindDeposit,
		Status: domain.StatusFilter{NotIn: []domain.TransactionStatus{domain.StatusCleared}},
		Limit:  limit,
		Offset: offset,
	})
}

// WithdrawalQueue lists withdrawals, optionally for a single owner.
func (uc *LedgerUseCase) WithdrawalQueue(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	return uc.ListQueue(ctx, domain.TransactionFilter{
		OwnerID: ownerID,
		Kind:    domain.KindWithdrawal,
		Limit:   limit,
		Offset:  offset,
	})
}

// applyAndEmit applies the balance effect of a completed transaction.
func (uc *LedgerUseCase) applyAndEmit(ctx context.Context, tx Tx, t *domain.Transaction, at time.Time) error {
	wallet, err := uc.walletRepo.ApplyDelta(ctx, tx, t.OwnerID, t.Currency, domain.CurrencyKind(t.Currency), t.SignedAmount(), at)
	if err != nil {
		return err
	}
	return uc.emit(ctx, tx, domain.AggregateTypeWallet, wallet.Key().String(), domain.EventTypeWalletAdjusted, domain.WalletEventPayload(wallet, t.ID))
}

// lockWallet returns the locked wallet, or nil when the owner has none yet.
func (uc *LedgerUseCase) lockWallet(ctx context.Context, tx Tx, ownerID, currency string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetForUpdate(ctx, tx, ownerID, currency)
	if errors.Is(err, domain.ErrWalletNotFound) {
		return nil, nil
	}
	return wallet, err
}

func ensureFunds(wallet *domain.Wallet, t *domain.Transaction) error {
	if wallet == nil {
		return fmt.Errorf("%w: no %s wallet for %s", domain.ErrInsufficientBalance, t.Currency, t.OwnerID)
	}
	return wallet.ValidateDebit(t.Amount)
}

func (uc *LedgerUseCase) emit(ctx context.Context, tx Tx, aggregateType, aggregateID, eventType string, payload map[string]any) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     uc.now(),
		Published:     false,
	})
}

type auditEntry struct {
	actorID      string
	action       domain.AuditAction
	resourceType string
	resourceID   string
	before       domain.JSON
	after        domain.JSON
}

func (uc *LedgerUseCase) audit(ctx context.Context, tx Tx, e auditEntry) error {
	if uc.auditRepo == nil {
		return nil
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      e.actorID,
		Action:       string(e.action),
		ResourceType: e.resourceType,
		ResourceID:   e.resourceID,
		RequestID:    domain.RequestIDFromContext(ctx),
		BeforeState:  e.before,
		AfterState:   e.after,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    uc.now(),
	}
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(log.Action, log.Status).Inc()
	}
	return nil
}

func (uc *LedgerUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

func (uc *LedgerUseCase) walletCurrency(requested string) string {
	if uc.settlementCurrency != "" {
		return uc.settlementCurrency
	}
	return requested
}

func (uc *LedgerUseCase) log(ctx context.Context) *zerolog.Logger {
	l := uc.logger
	if requestID := domain.RequestIDFromContext(ctx); requestID != "" {
		l = l.With().Str("request_id", requestID).Logger()
	}
	return &l
}

func (uc *LedgerUseCase) recordError(operation string, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.LedgerErrors.WithLabelValues(operation, errorType(err)).Inc()
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrTransactionNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}

func actorOrSystem(actorID string) string {
	if strings.TrimSpace(actorID) == "" {
		return SystemActorID
	}
	return actorID
}

func submitDetails(input SubmitInput, requested string) domain.Details {
	asset := input.AssetType
	if asset == "" {
		asset = domain.CurrencyKind(requested)
	}

	if input.Kind == domain.KindWithdrawal {
		description := fmt.Sprintf("Withdrawal request of %s %s via %s", input.Amount.String(), requested, input.WithdrawalMethod)
		if input.Note != "" {
			description += ": " + input.Note
		}
		return domain.WithdrawalDetails{
			AssetType:         asset,
			RequestedCurrency: requested,
			Method:            input.WithdrawalMethod,
			Destination:       input.Destination,
			Description:       description,
		}
	}

	description := fmt.Sprintf("Deposit of %s %s", input.Amount.String(), requested)
	if input.Note != "" {
		description += ": " + input.Note
	}
	return domain.DepositDetails{
		AssetType:         asset,
		RequestedCurrency: requested,
		Description:       description,
	}
}

func adjustmentDetails(input AdjustInput, kind domain.TransactionKind, statType domain.StatType, requested string, credit bool) domain.Details {
	verb := "deduction"
	if credit {
		verb = "addition"
	}

	description := fmt.Sprintf("Admin %s %s of %s %s", kind, verb, input.Amount.String(), requested)
	if credit && kind == domain.KindDeposit {
		description = fmt.Sprintf("Admin deposit of %s %s", input.Amount.String(), requested)
	}
	if input.Note != "" {
		description += ": " + input.Note
	}

	return domain.AdjustmentDetails{
		AssetType:         domain.CurrencyKind(requested),
		RequestedCurrency: requested,
		StatType:          statType,
		Description:       description,
	}
}
