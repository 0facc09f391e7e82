package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"landregistry/internal/auth/models"
	"landregistry/internal/platform/metrics"
	"landregistry/internal/rules"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/email"
	"landregistry/pkg/platform/audit"
	"landregistry/pkg/platform/delay"
	"landregistry/pkg/requestcontext"
)

// DefaultDelay is the simulated authentication latency.
const DefaultDelay = time.Second

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is a demo sign-in. Any non-empty email and password are accepted
// for any role in the enumeration. It is not a security boundary.
type Service struct {
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	delay          time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithDelay sets the simulated latency. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		s.delay = d
	}
}

func New(opts ...Option) *Service {
	s := &Service{logger: slog.Default(), delay: DefaultDelay}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login validates the form, waits the simulated delay and returns a session.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	if err := rules.RequireFields(
		rules.Field{Name: "email", Value: req.Email},
		rules.Field{Name: "password", Value: req.Password},
		rules.Field{Name: "role", Value: req.Role},
	); err != nil {
		s.metrics.IncrementValidationFailure(string(dErrors.CodeMissingField))
		return nil, err
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		s.metrics.IncrementValidationFailure(string(dErrors.CodeValidation))
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown role %q", req.Role)
	}

	if err := delay.Wait(ctx, s.delay); err != nil {
		return nil, err
	}

	addr := strings.TrimSpace(req.Email)
	session := &models.Session{
		Email:           addr,
		DisplayName:     email.DisplayName(addr),
		Role:            role,
		RoleLabel:       role.Label(),
		AuthenticatedAt: requestcontext.Now(ctx),
	}

	s.metrics.IncrementSignIn(string(role))
	s.logger.InfoContext(ctx, string(audit.EventSignedIn),
		"email", session.Email,
		"role", string(role),
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	if s.auditPublisher != nil {
		if err := s.auditPublisher.Emit(ctx, audit.Event{
			Subject: session.Email,
			Action:  string(audit.EventSignedIn),
			Actor:   string(role),
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to emit audit event", "error", err)
		}
	}
	return session, nil
}

// Logout has nothing to revoke.
func (s *Service) Logout(ctx context.Context) {
	s.logger.DebugContext(ctx, "signed out", "request_id", requestcontext.RequestID(ctx))
}
