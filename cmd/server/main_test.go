package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/auth"
	"github.com/iho/walletledger/internal/infrastructure/config"
	"github.com/iho/walletledger/internal/infrastructure/eventpublisher"
	"github.com/iho/walletledger/internal/infrastructure/redis"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StorageDriver:      config.StorageMemory,
		HTTPPort:           "0",
		RateLimitRPS:       100,
		RateLimitBurst:     100,
		IdempotencyTTL:     time.Hour,
		JWTSecret:          "test-secret",
		JWTExpiration:      time.Hour,
		AuthEnabled:        true,
		SettlementCurrency: "USD",
		ReconcileSchedule:  "0 * * * *",
		ReconcileTimeout:   time.Minute,
		OutboxEnabled:      true,
		OutboxInterval:     time.Hour,
		OutboxBatchSize:    10,
		OutboxRetention:    time.Hour,
		EventSink:          config.SinkLog,
		EventStream:        "test:events",
		EventStreamLen:     100,
		KafkaBrokers:       []string{"localhost:9092"},
		KafkaTopic:         "test.events",
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestNewSink(t *testing.T) {
	cfg := memoryConfig()
	log := zerolog.Nop()

	sink, closeSink, err := newSink(cfg, nil, log)
	if err != nil {
		t.Fatalf("log sink: %v", err)
	}
	closeSink()
	if _, ok := sink.(*eventpublisher.LogPublisher); !ok {
		t.Fatalf("expected LogPublisher, got %T", sink)
	}

	cfg.EventSink = config.SinkRedis
	if _, _, err := newSink(cfg, nil, log); err == nil {
		t.Fatal("expected error for redis sink without a client")
	}

	s := miniredis.RunT(t)
	client, err := redis.NewClient(context.Background(), "redis://"+s.Addr())
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	sink, closeSink, err = newSink(cfg, client, log)
	if err != nil {
		t.Fatalf("redis sink: %v", err)
	}
	closeSink()
	if _, ok := sink.(*eventpublisher.RedisStreamPublisher); !ok {
		t.Fatalf("expected RedisStreamPublisher, got %T", sink)
	}

	cfg.EventSink = config.SinkKafka
	sink, closeSink, err = newSink(cfg, nil, log)
	if err != nil {
		t.Fatalf("kafka sink: %v", err)
	}
	closeSink()
	if _, ok := sink.(*eventpublisher.KafkaPublisher); !ok {
		t.Fatalf("expected KafkaPublisher, got %T", sink)
	}
}

func TestOpenStorageMemory(t *testing.T) {
	cfg := memoryConfig()
	store, err := openStorage(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	if store.pool != nil {
		t.Fatal("memory storage must not open a pool")
	}
	if store.retrier != nil {
		t.Fatal("memory storage needs no retrier")
	}

	cfg.OutboxEnabled = false
	store, err = openStorage(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	if _, err := store.outbox.GetUnpublished(context.Background(), 10); err != nil {
		t.Fatalf("null outbox: %v", err)
	}
}

func TestAppServesDepositFlow(t *testing.T) {
	s := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.RedisEnabled = true
	cfg.RedisURL = "redis://" + s.Addr()

	a, err := newApp(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.startWorkers(ctx); err != nil {
		t.Fatalf("start workers: %v", err)
	}

	srv := httptest.NewServer(a.router)
	defer srv.Close()

	jwt := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	token, err := jwt.Generate(&domain.User{ID: "user-1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/transactions/deposits",
		strings.NewReader(`{"amount":"10.00","currency":"USD","assetType":"fiat"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("deposit request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"status":"pending"`) {
		t.Fatalf("expected pending deposit, got %s", body)
	}

	resp, err = http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatalf("ready request: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"postgres":"disabled"`) || !strings.Contains(string(body), `"redis":"ok"`) {
		t.Fatalf("unexpected readiness body %s", body)
	}
}

func TestAppHeaderAuthWhenTokensDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.AuthEnabled = false
	cfg.OutboxEnabled = false

	a, err := newApp(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets", nil)
	req.Header.Set("X-User-ID", "user-1")
	a.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewAppRejectsBadKindPolicy(t *testing.T) {
	cfg := memoryConfig()
	cfg.CreditKinds = map[string]string{"balance": "withdrawal"}

	if _, err := newApp(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected kind policy error")
	}
}
