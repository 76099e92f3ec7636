package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iho/walletledger/internal/usecase"
)

// DefaultReconcileSchedule runs reconciliation at the top of every hour.
const DefaultReconcileSchedule = "0 * * * *"

type reconciler interface {
	Run(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// Reconciler runs ledger reconciliation on a cron schedule.
type Reconciler struct {
	uc       reconciler
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewReconciler creates a Reconciler. An empty schedule uses DefaultReconcileSchedule.
func NewReconciler(uc reconciler, schedule string, timeout time.Duration, logger zerolog.Logger) *Reconciler {
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &Reconciler{
		uc:       uc,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule: schedule,
		timeout:  timeout,
		logger:   logger.With().Str("component", "reconciler").Logger(),
	}
}

// Start registers the job and starts the scheduler.
func (r *Reconciler) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, r.runOnce); err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info().Str("schedule", r.schedule).Msg("reconciliation worker started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (r *Reconciler) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info().Msg("reconciliation worker stopped")
}

func (r *Reconciler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	report, err := r.uc.Run(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("reconciliation failed")
		return
	}

	event := r.logger.Info()
	if !report.Consistent {
		event = r.logger.Warn()
	}
	event.
		Int("total_wallets", report.TotalWallets).
		Int("discrepancies", len(report.Discrepancies)).
		Bool("consistent", report.Consistent).
		Msg("reconciliation finished")
}
