package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoragePostgres, cfg.StorageDriver)
	assert.NotEmpty(t, cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "USD", cfg.SettlementCurrency)
	assert.Equal(t, config.SinkLog, cfg.EventSink)
	assert.Equal(t, 5*time.Second, cfg.DatabaseLockTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.AuthEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("SETTLEMENT_CURRENCY", "")
	t.Setenv("EVENT_SINK", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ADJUSTMENT_CREDIT_KINDS", "bonus:deposit")
	t.Setenv("ADJUSTMENT_DEBIT_KINDS", "balance:withdrawal")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "postgres://example", cfg.DatabaseURL)
	assert.Equal(t, "redis://example", cfg.RedisURL)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 45*time.Second, cfg.DatabaseTimeout)
	assert.False(t, cfg.AuthEnabled)
	assert.Empty(t, cfg.SettlementCurrency)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)

	policy, err := cfg.KindPolicy()
	require.NoError(t, err)
	kind, err := policy.CreditKind(domain.StatType("bonus"))
	require.NoError(t, err)
	assert.Equal(t, domain.KindDeposit, kind)
	kind, err = policy.DebitKind(domain.StatType("balance"))
	require.NoError(t, err)
	assert.Equal(t, domain.KindWithdrawal, kind)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}},
		{"unknown storage driver", map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{"unknown event sink", map[string]string{"EVENT_SINK": "carrier-pigeon"}},
		{"redis sink without redis", map[string]string{"EVENT_SINK": "redis", "REDIS_ENABLED": "false"}},
		{"bad settlement currency", map[string]string{"SETTLEMENT_CURRENCY": "XXX"}},
		{"bad adjustment kind", map[string]string{"ADJUSTMENT_CREDIT_KINDS": "balance:refund"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "dev-secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
