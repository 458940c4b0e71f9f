package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, BackendMemory, cfg.StorageBackend)
	require.False(t, cfg.PersistCart)
	require.True(t, decimal.NewFromInt(500).Equal(cfg.DeliveryCharge))
	require.Equal(t, 2*time.Second, cfg.CheckoutDelay)
	require.Equal(t, 10*time.Second, cfg.CheckoutTimeout)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "trendora.orders", cfg.KafkaOrderTopic)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	require.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	require.Equal(t, time.Minute, cfg.SessionSweepInterval)
	require.Equal(t, 5*time.Minute, cfg.DBPool.MaxConnIdleTime)
	require.Equal(t, 5*time.Second, cfg.DBPool.PingTimeout)
	require.Zero(t, cfg.DBPool.MaxConns)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("PERSIST_CART", "true")
	t.Setenv("DELIVERY_CHARGE", "150.50")
	t.Setenv("CHECKOUT_DELAY_MS", "0")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DB_MAX_CONNS", "20")
	t.Setenv("SESSION_IDLE_TTL_MINUTES", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, BackendRedis, cfg.StorageBackend)
	require.True(t, cfg.PersistCart)
	require.True(t, decimal.RequireFromString("150.50").Equal(cfg.DeliveryCharge))
	require.Zero(t, cfg.CheckoutDelay)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, int32(20), cfg.DBPool.MaxConns)
	require.Zero(t, cfg.SessionIdleTTL)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "floppy")
	_, err := FromEnv()
	require.Error(t, err)

	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("DELIVERY_CHARGE", "-1")
	_, err = FromEnv()
	require.Error(t, err)

	t.Setenv("DELIVERY_CHARGE", "five")
	_, err = FromEnv()
	require.Error(t, err)
}
