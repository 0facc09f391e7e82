package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	authhandler "landregistry/internal/auth/handler"
	authservice "landregistry/internal/auth/service"
	"landregistry/internal/dashboard"
	httpapi "landregistry/internal/http"
	landhandler "landregistry/internal/land/handler"
	"landregistry/internal/land/seed"
	landservice "landregistry/internal/land/service"
	landmemory "landregistry/internal/land/store/memory"
	landpostgres "landregistry/internal/land/store/postgres"
	"landregistry/internal/platform/config"
	"landregistry/internal/platform/httpserver"
	"landregistry/internal/platform/logger"
	"landregistry/internal/platform/metrics"
	"landregistry/internal/platform/postgres"
	"landregistry/internal/platform/redis"
	ratelimitmw "landregistry/internal/ratelimit/middleware"
	ratelimitmodels "landregistry/internal/ratelimit/models"
	"landregistry/internal/ratelimit/store/bucket"
	subdivisionhandler "landregistry/internal/subdivision/handler"
	subdivisionservice "landregistry/internal/subdivision/service"
	subdivisionmemory "landregistry/internal/subdivision/store/memory"
	transferhandler "landregistry/internal/transfer/handler"
	transferservice "landregistry/internal/transfer/service"
	transfermemory "landregistry/internal/transfer/store/memory"
	transferredis "landregistry/internal/transfer/store/redis"
	"landregistry/pkg/platform/audit"
	"landregistry/pkg/platform/audit/publisher"
	"landregistry/pkg/platform/audit/sink/kafka"
	auditmemory "landregistry/pkg/platform/audit/store/memory"
	auditpostgres "landregistry/pkg/platform/audit/store/postgres"
	"landregistry/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// infra holds the optional backing services selected by configuration.
type infra struct {
	db     *sql.DB
	redis  *redis.Client
	kafka  *kafka.Sink
	checks map[string]httpapi.HealthCheck
}

func (i *infra) close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func connect(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	in := &infra{checks: map[string]httpapi.HealthCheck{}}

	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database.URL, postgres.Options{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		in.db = db
		if err := postgres.Migrate(ctx, db); err != nil {
			in.close()
			return nil, err
		}
		in.checks["postgres"] = db.PingContext
		log.Info("using postgres for land records and audit")
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		in.close()
		return nil, err
	}
	if rc != nil {
		in.redis = rc
		in.checks["redis"] = rc.Health
		log.Info("using redis for transfers")
	}

	if len(cfg.Audit.KafkaBrokers) > 0 {
		sink, err := kafka.New(ctx, cfg.Audit.KafkaBrokers, cfg.Audit.Topic)
		if err != nil {
			in.close()
			return nil, err
		}
		in.kafka = sink
		log.Info("streaming audit events", "topic", sink.Topic())
	}
	return in, nil
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	in, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer in.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	if in.db != nil {
		auditStore = auditpostgres.New(in.db)
	}
	audits := publisher.NewPublisher(auditStore,
		publisher.WithLogger(log),
		publisher.WithAsyncBuffer(cfg.Audit.AsyncBuffer),
		publisher.WithSink(sinkOrNil(in.kafka), circuit.WithFailureThreshold(5), circuit.WithCooldown(30*time.Second)),
	)
	defer audits.Close()

	var landStore landservice.Store = landmemory.New()
	if in.db != nil {
		landStore = landpostgres.New(in.db)
	}
	loaded, err := seed.Load(ctx, landStore)
	if err != nil {
		return fmt.Errorf("load demo records: %w", err)
	}
	log.Info("demo records loaded", "inserted", loaded)

	var transferStore transferservice.Store = transfermemory.New()
	if in.redis != nil {
		transferStore = transferredis.New(in.redis.Client,
			transferredis.WithTTL(cfg.Redis.TransferTTL),
			transferredis.WithMaxRetries(cfg.Redis.TransferRetries),
		)
	}

	lands := landservice.New(landStore,
		landservice.WithLogger(log),
		landservice.WithMetrics(m),
		landservice.WithAuditPublisher(audits),
		landservice.WithSearchDelay(cfg.SearchDelay),
	)
	transfers := transferservice.New(transferStore, lands,
		transferservice.WithLogger(log),
		transferservice.WithMetrics(m),
		transferservice.WithAuditPublisher(audits),
	)
	subdivisions := subdivisionservice.New(subdivisionmemory.New(),
		subdivisionservice.WithLogger(log),
		subdivisionservice.WithMetrics(m),
		subdivisionservice.WithAuditPublisher(audits),
	)
	auth := authservice.New(
		authservice.WithLogger(log),
		authservice.WithMetrics(m),
		authservice.WithAuditPublisher(audits),
		authservice.WithDelay(cfg.AuthDelay),
	)
	dash := dashboard.NewService(lands, dashboard.WithLogger(log), dashboard.WithActivityFeed(audits))

	var buckets ratelimitmw.BucketStore = bucket.NewInMemoryBucketStore()
	if in.redis != nil {
		buckets = bucket.NewRedisBucketStore(in.redis.Client)
	}
	limiter := ratelimitmw.New(buckets, log,
		ratelimitmw.WithDisabled(cfg.RateLimit.Disabled),
		ratelimitmw.WithMetrics(m),
		ratelimitmw.WithLimit(ratelimitmodels.ClassAuth, perMinute(cfg.RateLimit.AuthPerMinute)),
		ratelimitmw.WithLimit(ratelimitmodels.ClassRead, perMinute(cfg.RateLimit.ReadPerMinute)),
		ratelimitmw.WithLimit(ratelimitmodels.ClassWrite, perMinute(cfg.RateLimit.WritePerMinute)),
	)

	router := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		Metrics:        m,
		Gatherer:       reg,
		RequestTimeout: cfg.RequestTimeout,
		HealthChecks:   in.checks,
		RateLimit:      limiter.ByRoute,
		Modules: []httpapi.RouteRegistrar{
			authhandler.New(auth, log),
			dashboard.NewHandler(dash, log),
			landhandler.New(lands, log),
			transferhandler.New(transfers, log),
			subdivisionhandler.New(subdivisions, log),
		},
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting land registry", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// sinkOrNil avoids handing the publisher a typed nil interface.
func sinkOrNil(s *kafka.Sink) audit.Sink {
	if s == nil {
		return nil
	}
	return s
}

func perMinute(n int) ratelimitmodels.Limit {
	return ratelimitmodels.Limit{Requests: n, Window: time.Minute}
}

func migrate(ctx context.Context) error {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}
