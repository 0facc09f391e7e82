package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"landregistry/internal/transfer/models"
	"landregistry/pkg/platform/sentinel"
)

const (
	transferKeyPrefix = "landregistry:transfer:"
	// indexKey is a sorted set of transfer ids scored by UpdatedAt.
	indexKey = "landregistry:transfers:updated"

	defaultTTL        = 30 * 24 * time.Hour
	defaultMaxRetries = 5
)

// Store keeps transfers as JSON values with a sliding TTL. Updates use
// WATCH/MULTI so concurrent step completions cannot both win.
type Store struct {
	client     *redis.Client
	ttl        time.Duration
	maxRetries int
}

type Option func(*Store)

// WithTTL sets how long an untouched transfer is kept. Every write refreshes it.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxRetries bounds optimistic retries when a WATCH fails.
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, ttl: defaultTTL, maxRetries: defaultMaxRetries}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func transferKey(id string) string {
	return transferKeyPrefix + id
}

func (s *Store) Create(ctx context.Context, transfer *models.Transfer) error {
	if err := transfer.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(transfer)
	if err != nil {
		return fmt.Errorf("encode transfer %s: %w", transfer.ID, err)
	}
	created, err := s.client.SetNX(ctx, transferKey(transfer.ID), payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create transfer %s: %w", transfer.ID, err)
	}
	if !created {
		return fmt.Errorf("transfer %s: %w", transfer.ID, sentinel.ErrConflict)
	}
	return s.client.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(transfer.UpdatedAt.UnixNano()),
		Member: transfer.ID,
	}).Err()
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Transfer, error) {
	return s.load(ctx, s.client, id)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *Store) load(ctx context.Context, g getter, id string) (*models.Transfer, error) {
	raw, err := g.Get(ctx, transferKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("transfer %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load transfer %s: %w", id, err)
	}
	return decode(id, raw)
}

func decode(id string, raw []byte) (*models.Transfer, error) {
	var t models.Transfer
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode transfer %s: %w", id, err)
	}
	return &t, nil
}

// Update applies fn inside a WATCH on the transfer key. A concurrent write
// aborts the transaction and the whole read-modify-write is retried; after
// maxRetries the caller receives ErrConflict. Errors returned by fn, and
// results that break the step invariants, abort without retry.
func (s *Store) Update(ctx context.Context, id string, fn func(*models.Transfer) error) (*models.Transfer, error) {
	key := transferKey(id)
	var updated *models.Transfer

	txf := func(tx *redis.Tx) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(current); err != nil {
			return err
		}
		if err := current.Validate(); err != nil {
			return err
		}
		payload, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode transfer %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(current.UpdatedAt.UnixNano()), Member: id})
			return nil
		})
		if err != nil {
			return err
		}
		updated = current
		return nil
	}

	for range s.maxRetries {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("transfer %s: %w", id, sentinel.ErrConflict)
}

// List returns live transfers, most recently updated first. Index entries
// whose value has expired are pruned.
func (s *Store) List(ctx context.Context) ([]*models.Transfer, error) {
	ids, err := s.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list transfer ids: %w", err)
	}
	if len(ids) == 0 {
		return []*models.Transfer{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = transferKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load transfers: %w", err)
	}

	out := make([]*models.Transfer, 0, len(ids))
	var expired []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		t, err := decode(ids[i], []byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if len(expired) > 0 {
		_ = s.client.ZRem(ctx, indexKey, expired...).Err()
	}
	return out, nil
}
