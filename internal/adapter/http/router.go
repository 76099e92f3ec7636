package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/iho/walletledger/internal/adapter/http/handler"
	"github.com/iho/walletledger/internal/adapter/http/middleware"
	"github.com/iho/walletledger/internal/infrastructure/metrics"
	"github.com/iho/walletledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler    *handler.TransactionHandler
	WalletHandler         *handler.WalletHandler
	AdminHandler          *handler.AdminHandler
	ReconciliationHandler *handler.ReconciliationHandler
	AuditHandler          *handler.AuditHandler
	HealthHandler         *handler.HealthHandler

	// TokenVerifier authenticates bearer tokens. When nil the caller
	// identity is read from the development headers instead.
	TokenVerifier    middleware.TokenVerifier
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
	AllowedOrigins   []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader, chimiddleware.RequestIDHeader},
		ExposedHeaders:   []string{"X-Idempotency-Replay", chimiddleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.TokenVerifier != nil {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier, cfg.Metrics))
		} else {
			r.Use(middleware.HeaderAuth)
		}

		// Idempotency middleware for mutating requests, keyed per caller
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/deposits", cfg.TransactionHandler.SubmitDeposit)
			r.Post("/withdrawals", cfg.TransactionHandler.SubmitWithdrawal)
			r.Get("/{id}", cfg.TransactionHandler.Get)
		})
		r.Get("/activity", cfg.TransactionHandler.Activity)

		r.Route("/wallets", func(r chi.Router) {
			r.Get("/", cfg.WalletHandler.List)
			r.Get("/balance", cfg.WalletHandler.Balance)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.Metrics))

			r.Get("/deposits", cfg.AdminHandler.Deposits)
			r.Post("/deposits/clear", cfg.AdminHandler.ClearDeposits)
			r.Get("/withdrawals", cfg.AdminHandler.Withdrawals)
			r.Get("/users/{ownerId}/withdrawals", cfg.AdminHandler.UserWithdrawals)

			r.Post("/transactions/{id}/approve", cfg.AdminHandler.Approve)
			r.Post("/transactions/{id}/decline", cfg.AdminHandler.Decline)

			r.Post("/wallets/credit", cfg.AdminHandler.Credit)
			r.Post("/wallets/debit", cfg.AdminHandler.Debit)

			r.Get("/reconciliation", cfg.ReconciliationHandler.Run)
			r.Get("/reconciliation/last", cfg.ReconciliationHandler.Last)

			r.Get("/audit", cfg.AuditHandler.List)
		})
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
