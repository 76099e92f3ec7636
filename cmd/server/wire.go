package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/walletledger/internal/adapter/http"
	"github.com/iho/walletledger/internal/adapter/http/handler"
	"github.com/iho/walletledger/internal/adapter/http/middleware"
	"github.com/iho/walletledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/walletledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/walletledger/internal/adapter/repository/redis"
	"github.com/iho/walletledger/internal/infrastructure/auth"
	"github.com/iho/walletledger/internal/infrastructure/config"
	"github.com/iho/walletledger/internal/infrastructure/eventpublisher"
	"github.com/iho/walletledger/internal/infrastructure/metrics"
	"github.com/iho/walletledger/internal/infrastructure/postgres"
	"github.com/iho/walletledger/internal/infrastructure/redis"
	"github.com/iho/walletledger/internal/infrastructure/worker"
	"github.com/iho/walletledger/internal/usecase"
)

// storage bundles the repositories of one storage driver.
type storage struct {
	pool         *pgxpool.Pool
	txManager    usecase.TxManager
	wallets      usecase.WalletRepository
	transactions usecase.TransactionRepository
	outbox       usecase.OutboxRepository
	audit        usecase.AuditRepository
	retrier      usecase.Retrier
}

type app struct {
	cfg         *config.Config
	log         zerolog.Logger
	store       *storage
	redisClient *goredis.Client
	metrics     *metrics.Metrics
	ledger      *usecase.LedgerUseCase
	recon       *usecase.ReconciliationUseCase
	rateLimiter *middleware.RateLimiter
	router      http.Handler
	closers     []func()
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	policy, err := cfg.KindPolicy()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(reg)

	a.store, err = openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if a.store.pool != nil {
		a.closers = append(a.closers, a.store.pool.Close)
	}

	var cache usecase.Cache
	var idempotency usecase.IdempotencyStore
	if cfg.RedisEnabled {
		a.redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = a.redisClient.Close() })
		log.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(a.redisClient, a.metrics)
		idempotency = redisRepo.NewIdempotencyStore(a.redisClient, a.metrics)
	}

	idGen := postgresRepo.NewULIDGenerator()
	a.ledger = usecase.NewLedgerUseCase(
		a.store.txManager,
		a.store.wallets,
		a.store.transactions,
		a.store.outbox,
		a.store.audit,
		idGen,
		a.metrics,
	).
		WithKindPolicy(policy).
		WithSettlementCurrency(cfg.SettlementCurrency).
		WithLogger(log)
	if a.store.retrier != nil {
		a.ledger.WithRetrier(a.store.retrier)
	}

	a.recon = usecase.NewReconciliationUseCase(a.store.txManager, a.store.wallets, a.store.transactions, cache, a.metrics).
		WithLogger(log)

	a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, a.metrics)

	routerCfg := httpAdapter.RouterConfig{
		TransactionHandler:    handler.NewTransactionHandler(a.ledger),
		WalletHandler:         handler.NewWalletHandler(usecase.NewWalletUseCase(a.store.wallets)),
		AdminHandler:          handler.NewAdminHandler(a.ledger),
		ReconciliationHandler: handler.NewReconciliationHandler(a.recon),
		AuditHandler:          handler.NewAuditHandler(usecase.NewAuditUseCase(a.store.audit)),
		HealthHandler:         handler.NewHealthHandler(a.store.pool, redisOrNil(a.redisClient)),
		IdempotencyStore:      idempotency,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           a.rateLimiter,
		Metrics:               a.metrics,
		MetricsHandler:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:                log,
		AllowedOrigins:        cfg.CORSAllowedOrigins,
	}
	if cfg.AuthEnabled {
		routerCfg.TokenVerifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	} else {
		log.Warn().Msg("token authentication disabled, trusting identity headers")
	}
	a.router = httpAdapter.NewRouter(routerCfg)

	return a, nil
}

// openStorage connects the configured storage driver.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		s := &storage{
			txManager:    store,
			wallets:      memory.NewWalletRepository(store),
			transactions: memory.NewTransactionRepository(store),
			outbox:       memory.NewOutboxRepository(store),
			audit:        memory.NewAuditRepository(store),
		}
		if !cfg.OutboxEnabled {
			s.outbox = postgresRepo.NewNullOutboxRepository()
		}
		return s, nil
	}

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("connected to postgres")

	s := &storage{
		pool:         pool,
		txManager:    postgresRepo.NewTxManager(pool, cfg.DatabaseLockTimeout),
		wallets:      postgresRepo.NewWalletRepository(pool),
		transactions: postgresRepo.NewTransactionRepository(pool),
		outbox:       postgresRepo.NewOutboxRepository(pool),
		audit:        postgresRepo.NewAuditRepository(pool),
		retrier:      postgresRepo.NewRetrier(log),
	}
	if !cfg.OutboxEnabled {
		s.outbox = postgresRepo.NewNullOutboxRepository()
	}
	return s, nil
}

// newSink builds the outbox relay target. The returned close function is never nil.
func newSink(cfg *config.Config, client goredis.UniversalClient, log zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	switch cfg.EventSink {
	case config.SinkRedis:
		if client == nil {
			return nil, nil, fmt.Errorf("event sink %q needs redis", cfg.EventSink)
		}
		return eventpublisher.NewRedisStreamPublisher(client, cfg.EventStream, cfg.EventStreamLen), func() {}, nil
	case config.SinkKafka:
		p := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		return p, func() {
			if err := p.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close kafka writer")
			}
		}, nil
	default:
		return eventpublisher.NewLogPublisher(log), func() {}, nil
	}
}

// startWorkers launches the outbox relay, the reconciliation schedule and
// limiter cleanup. They stop when ctx is cancelled or the app is closed.
func (a *app) startWorkers(ctx context.Context) error {
	if a.cfg.OutboxEnabled {
		sink, closeSink, err := newSink(a.cfg, redisOrNil(a.redisClient), a.log)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, closeSink)

		relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: a.store.outbox,
			Publisher:  sink,
			Logger:     a.log,
			Metrics:    a.metrics,
			BatchSize:  a.cfg.OutboxBatchSize,
			Interval:   a.cfg.OutboxInterval,
			Retention:  a.cfg.OutboxRetention,
		})
		go func() { _ = relay.Start(ctx) }()
	}

	if a.cfg.ReconcileEnabled {
		reconciler := worker.NewReconciler(a.recon, a.cfg.ReconcileSchedule, a.cfg.ReconcileTimeout, a.log)
		if err := reconciler.Start(); err != nil {
			return fmt.Errorf("start reconciler: %w", err)
		}
		a.closers = append(a.closers, reconciler.Stop)
	}

	go a.cleanupLimiters(ctx)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// redisOrNil keeps a nil *Client from becoming a non-nil interface.
func redisOrNil(c *goredis.Client) goredis.UniversalClient {
	if c == nil {
		return nil
	}
	return c
}
