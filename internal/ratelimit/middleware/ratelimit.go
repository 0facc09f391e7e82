package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"landregistry/internal/platform/metrics"
	"landregistry/internal/ratelimit/models"
	"landregistry/pkg/platform/httputil"
	"landregistry/pkg/requestcontext"
)

// BucketStore is satisfied by the in-memory and Redis bucket stores.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Middleware struct {
	store    BucketStore
	limits   map[models.EndpointClass]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns every check into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithLimit overrides the budget for one class.
func WithLimit(class models.EndpointClass, limit models.Limit) Option {
	return func(m *Middleware) {
		if class.IsValid() && limit.Requests > 0 && limit.Window > 0 {
			m.limits[class] = limit
		}
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = metrics
	}
}

func New(store BucketStore, logger *slog.Logger, opts ...Option) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Middleware{
		store:  store,
		limits: models.DefaultLimits(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// ByRoute limits every request by client IP against the budget of its
// class: sign-in is auth, record search and GETs are read, other mutations
// are write.
func (m *Middleware) ByRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.allow(w, r, Classify(r)) {
			next.ServeHTTP(w, r)
		}
	})
}

func Classify(r *http.Request) models.EndpointClass {
	switch {
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/auth/login"):
		return models.ClassAuth
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		return models.ClassRead
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/search-records"):
		return models.ClassRead
	default:
		return models.ClassWrite
	}
}

// allow writes the rate limit headers and, when the budget is spent, the 429
// response. Store errors fail open.
func (m *Middleware) allow(w http.ResponseWriter, r *http.Request, class models.EndpointClass) bool {
	if m.disabled || m.store == nil {
		return true
	}
	limit, ok := m.limits[class]
	if !ok {
		return true
	}

	ctx := r.Context()
	ip := requestcontext.ClientIP(ctx)
	result, err := m.store.Allow(ctx, models.IPKey(class, ip), limit.Requests, limit.Window)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to check rate limit", "error", err, "class", class)
		return true
	}

	addRateLimitHeaders(w, result)
	if !result.Allowed {
		m.metrics.IncrementRateLimited(string(class))
		m.logger.WarnContext(ctx, "rate limit exceeded", "class", class, "path", r.URL.Path)
		writeRateLimitExceeded(w, result)
		return false
	}
	return true
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests from this address. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
