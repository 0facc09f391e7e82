package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
	// AuthDelay and SearchDelay are the fixed artificial latencies of the
	// sign-in stub and record search.
	AuthDelay   time.Duration
	SearchDelay time.Duration
	Database    DatabaseConfig
	Redis       RedisConfig
	Audit       AuditConfig
	RateLimit   RateLimitConfig
}

// DatabaseConfig selects the Postgres backend. An empty URL keeps land
// records and audit events in memory.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig selects the Redis backend for transfers. An empty URL keeps
// transfers in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// TransferTTL bounds how long an untouched transfer is kept.
	TransferTTL time.Duration
	// TransferRetries bounds optimistic retries of a contended transfer update.
	TransferRetries int
}

// AuditConfig controls audit persistence and streaming.
type AuditConfig struct {
	KafkaBrokers []string
	Topic        string
	AsyncBuffer  int
}

// RateLimitConfig sets the per-IP request budgets per minute.
type RateLimitConfig struct {
	Disabled       bool
	AuthPerMinute  int
	ReadPerMinute  int
	WritePerMinute int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:           envString("LAND_REGISTRY_ADDR", ":8080"),
		LogLevel:       envString("LOG_LEVEL", "info"),
		LogFormat:      envString("LOG_FORMAT", "json"),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 30*time.Second),
		AuthDelay:      envDuration("AUTH_DELAY", time.Second),
		SearchDelay:    envDuration("SEARCH_DELAY", time.Second),
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:             os.Getenv("REDIS_URL"),
			PoolSize:        envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:     envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			TransferTTL:     envDuration("TRANSFER_TTL", 30*24*time.Hour),
			TransferRetries: envInt("TRANSFER_UPDATE_RETRIES", 5),
		},
		Audit: AuditConfig{
			KafkaBrokers: envList("KAFKA_BROKERS"),
			Topic:        envString("AUDIT_TOPIC", "land-registry-audit"),
			AsyncBuffer:  envInt("AUDIT_ASYNC_BUFFER", 256),
		},
		RateLimit: RateLimitConfig{
			Disabled:       envBool("RATE_LIMIT_DISABLED", false),
			AuthPerMinute:  envInt("RATE_LIMIT_AUTH_PER_MINUTE", 10),
			ReadPerMinute:  envInt("RATE_LIMIT_READ_PER_MINUTE", 120),
			WritePerMinute: envInt("RATE_LIMIT_WRITE_PER_MINUTE", 60),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// envDuration accepts Go durations ("1s", "250ms"); "0" disables a delay.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if v == "0" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
