package bucket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"landregistry/internal/ratelimit/models"
)

const keyPrefix = "landregistry:ratelimit:"

// allowScript trims the window, then records the hit only if the window has
// room. Scores are passed in as strings so Lua never rounds them. It returns
// {allowed, count after the call, oldest score}.
var allowScript = redis.NewScript(`
local key    = KEYS[1]
local now    = ARGV[1]
local cutoff = ARGV[2]
local limit  = tonumber(ARGV[3])
local member = ARGV[4]
local ttl    = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', cutoff)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
  redis.call('ZADD', key, now, member)
  redis.call('PEXPIRE', key, ttl)
  count = count + 1
  allowed = 1
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local first = now
if oldest[2] then
  first = oldest[2]
end
return {allowed, count, first}
`)

// RedisBucketStore keeps one sorted set per key, scored by request time in
// nanoseconds, so every server instance shares the same windows.
type RedisBucketStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

type RedisOption func(*RedisBucketStore)

// WithRedisClock overrides the time source, for tests.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisBucketStore) {
		s.now = now
	}
}

func NewRedisBucketStore(client redis.UniversalClient, opts ...RedisOption) *RedisBucketStore {
	s := &RedisBucketStore{client: client, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow records one request against key if the window has room.
func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := s.now()
	res, err := allowScript.Run(ctx, s.client,
		[]string{keyPrefix + key},
		strconv.FormatInt(now.UnixNano(), 10),
		strconv.FormatInt(now.Add(-window).UnixNano(), 10),
		limit,
		uuid.NewString(),
		max(window.Milliseconds(), 1),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("check rate limit bucket: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("check rate limit bucket: unexpected reply %v", res)
	}

	allowed, _ := res[0].(int64)
	count, _ := res[1].(int64)
	resetAt := now.Add(window)
	if str, ok := res[2].(string); ok {
		if score, err := strconv.ParseFloat(str, 64); err == nil {
			resetAt = time.Unix(0, int64(score)).Add(window)
		}
	}

	if allowed == 1 {
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - int(count),
			ResetAt:   resetAt,
		}, nil
	}
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfter(now, resetAt),
	}, nil
}

// Reset deletes the bucket for key.
func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset rate limit bucket: %w", err)
	}
	return nil
}
