package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"LAND_REGISTRY_ADDR", "DATABASE_URL", "REDIS_URL", "KAFKA_BROKERS", "AUTH_DELAY", "SEARCH_DELAY", "RATE_LIMIT_DISABLED", "TRANSFER_UPDATE_RETRIES"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, time.Second, cfg.AuthDelay)
	assert.Equal(t, time.Second, cfg.SearchDelay)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 5, cfg.Redis.TransferRetries)
	assert.Nil(t, cfg.Audit.KafkaBrokers)
	assert.Equal(t, "land-registry-audit", cfg.Audit.Topic)
	assert.False(t, cfg.RateLimit.Disabled)
	assert.Equal(t, 10, cfg.RateLimit.AuthPerMinute)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("LAND_REGISTRY_ADDR", ":9090")
	t.Setenv("AUTH_DELAY", "0")
	t.Setenv("SEARCH_DELAY", "250ms")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("REDIS_POOL_SIZE", "not-a-number")
	t.Setenv("TRANSFER_UPDATE_RETRIES", "20")
	t.Setenv("RATE_LIMIT_DISABLED", "true")
	t.Setenv("RATE_LIMIT_READ_PER_MINUTE", "30")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, time.Duration(0), cfg.AuthDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDelay)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Audit.KafkaBrokers)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 20, cfg.Redis.TransferRetries)
	assert.True(t, cfg.RateLimit.Disabled)
	assert.Equal(t, 30, cfg.RateLimit.ReadPerMinute)
}
