package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"landregistry/internal/platform/metrics"
	"landregistry/internal/rules"
	"landregistry/internal/subdivision/models"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/platform/audit"
	"landregistry/pkg/platform/sentinel"
	"landregistry/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, sub *models.Submission) error
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	ListByLand(ctx context.Context, landID string) ([]*models.Submission, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service accepts subdivision requests. It never modifies the original
// land record.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
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

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("landregistry/subdivision"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates and stores a subdivision request.
func (s *Service) Submit(ctx context.Context, req models.SubmitRequest) (*models.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "subdivision.Submit")
	defer span.End()

	sub, err := s.build(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		s.metrics.IncrementValidationFailure(string(dErrors.CodeOf(err)))
		s.logger.WarnContext(ctx, "subdivision rejected",
			"request_id", requestcontext.RequestID(ctx),
			"land_id", req.OriginalLandID,
			"parcels", len(req.Parcels),
			"error", err.Error(),
		)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("land.id", sub.OriginalLandID),
		attribute.Int("subdivision.new_parcels", sub.NewParcelCount),
	)

	if err := s.store.Create(ctx, sub); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store create failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save subdivision")
	}

	s.metrics.IncrementSubdivisionsSubmitted()
	s.logger.InfoContext(ctx, string(audit.EventSubdivisionSubmitted),
		"subdivision_id", sub.ID,
		"land_id", sub.OriginalLandID,
		"new_parcels", sub.NewParcelCount,
		"residue", sub.Residue.String(),
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	if s.auditPublisher != nil {
		if err := s.auditPublisher.Emit(ctx, audit.Event{
			Subject: sub.OriginalLandID,
			Action:  string(audit.EventSubdivisionSubmitted),
			Actor:   requestcontext.Role(ctx),
			Detail:  fmt.Sprintf("subdivision=%s new_parcels=%d residue=%s", sub.ID, sub.NewParcelCount, sub.Residue),
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to emit audit event", "error", err)
		}
	}
	return sub, nil
}

func (s *Service) build(ctx context.Context, req models.SubmitRequest) (*models.Submission, error) {
	var originalSize string
	if req.OriginalSize.Valid {
		originalSize = req.OriginalSize.Decimal.String()
	}
	if err := rules.RequireFields(
		rules.Field{Name: "original_land_id", Value: req.OriginalLandID},
		rules.Field{Name: "original_size", Value: originalSize},
		rules.Field{Name: "reason", Value: req.Reason},
	); err != nil {
		return nil, err
	}
	if !req.OriginalSize.Decimal.IsPositive() {
		return nil, dErrors.New(dErrors.CodeValidation, "original_size must be greater than zero")
	}

	parcels := normalizeParcels(req.Parcels)
	result, err := rules.ValidateSubdivision(req.OriginalSize.Decimal, parcels)
	if err != nil {
		return nil, err
	}

	return &models.Submission{
		ID:             uuid.NewString(),
		OriginalLandID: strings.ToUpper(strings.TrimSpace(req.OriginalLandID)),
		OriginalSize:   req.OriginalSize.Decimal,
		Reason:         strings.TrimSpace(req.Reason),
		Parcels:        parcels,
		Total:          result.Total,
		Residue:        result.Residue,
		NewParcelCount: result.NewParcelCount,
		Status:         models.StatusSubmitted,
		SubmittedBy:    requestcontext.Role(ctx),
		SubmittedAt:    requestcontext.Now(ctx),
	}, nil
}

// normalizeParcels trims text fields, fills missing ids and applies the
// default land use.
func normalizeParcels(in []models.Parcel) []models.Parcel {
	out := make([]models.Parcel, len(in))
	for i, p := range in {
		p.Name = strings.TrimSpace(p.Name)
		p.Coordinates = strings.TrimSpace(p.Coordinates)
		p.LandUse = strings.TrimSpace(p.LandUse)
		if p.LandUse == "" {
			p.LandUse = models.DefaultLandUse
		}
		if p.ID == "" {
			p.ID = models.NewParcel(i).ID
		}
		out[i] = p
	}
	return out
}

// Get returns one submission.
func (s *Service) Get(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "subdivision %s not found", id)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subdivision")
	}
	return sub, nil
}

// ListByLand returns the submissions made for one original plot.
func (s *Service) ListByLand(ctx context.Context, landID string) ([]*models.Submission, error) {
	subs, err := s.store.ListByLand(ctx, strings.ToUpper(strings.TrimSpace(landID)))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list subdivisions")
	}
	return subs, nil
}
