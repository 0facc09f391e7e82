//go:build integration

package redis_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"landregistry/internal/transfer/models"
	transferredis "landregistry/internal/transfer/store/redis"
	"landregistry/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *transferredis.Store
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = transferredis.New(s.redis.Client.Client, transferredis.WithMaxRetries(50))
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(context.Background()))
}

// Concurrent completions race on WATCH; retries serialise them so exactly
// the remaining steps complete and the final state is consistent.
func (s *RedisStoreSuite) TestConcurrentStepCompletion() {
	ctx := context.Background()
	now := time.Now().UTC()
	t := models.NewTransfer("t-race", models.Details{
		LandID:       "LT-2024-001",
		CurrentOwner: "John Mukasa",
		NewOwner:     "Jane Namukasa",
	}, now)
	s.Require().NoError(t.Initiate(now))
	s.Require().NoError(s.store.Create(ctx, t))

	const goroutines = 12
	var wg sync.WaitGroup
	var completed atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Update(ctx, "t-race", func(tr *models.Transfer) error {
				_, err := tr.CompleteCurrentStep(time.Now().UTC())
				return err
			})
			if err == nil {
				completed.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(3), completed.Load())
	got, err := s.store.FindByID(ctx, "t-race")
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, got.Status)
	s.NoError(got.Validate())
}
