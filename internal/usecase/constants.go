package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyProcessingMarker holds a claimed key until the first request finishes.
	IdempotencyProcessingMarker = "processing"

	// DefaultActivityLimit is the page size of the activity feed.
	DefaultActivityLimit = 10

	// ReconciliationReportKey is the cache key of the last reconciliation report.
	ReconciliationReportKey = "walletledger:reconciliation:last"

	// ReconciliationReportTTL is how long the last report stays cached.
	ReconciliationReportTTL = 7 * 24 * time.Hour

	// SystemActorID is recorded when no caller identity is available.
	SystemActorID = "system"
)
