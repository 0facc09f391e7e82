package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"landregistry/internal/land/models"
	"landregistry/internal/land/search"
	"landregistry/internal/platform/metrics"
	"landregistry/internal/rules"
	"landregistry/pkg/attrs"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/platform/audit"
	"landregistry/pkg/platform/delay"
	"landregistry/pkg/platform/sentinel"
	pstrings "landregistry/pkg/platform/strings"
	"landregistry/pkg/requestcontext"
)

// Store is the persistence boundary for land records.
type Store interface {
	Create(ctx context.Context, record *models.LandRecord) error
	FindByID(ctx context.Context, landID string) (*models.LandRecord, error)
	List(ctx context.Context) ([]models.LandRecord, error)
	Update(ctx context.Context, landID string, fn func(*models.LandRecord) error) (*models.LandRecord, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service registers, looks up and searches land records, and applies the
// record side of ownership transfers.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	searchDelay    time.Duration
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

// WithSearchDelay sets the simulated latency applied before each search.
func WithSearchDelay(d time.Duration) Option {
	return func(s *Service) {
		s.searchDelay = d
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("landregistry/land"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates and stores a new record with status Active.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.LandRecord, error) {
	ctx, span := s.tracer.Start(ctx, "land.Register")
	defer span.End()

	req.Normalize()
	record, err := s.buildRecord(ctx, req)
	if err != nil {
		s.recordFailure(ctx, span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("land.id", record.LandID))

	if err := s.store.Create(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			err = dErrors.Newf(dErrors.CodeConflict, "land %s is already registered", record.LandID)
			s.recordFailure(ctx, span, err)
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "store create failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register land")
	}

	s.metrics.IncrementLandRegistrations()
	s.logAudit(ctx, audit.EventLandRegistered,
		"land_id", record.LandID,
		"detail", fmt.Sprintf("owner=%s district=%s size=%s", record.OwnerName, record.District, record.Size.String()),
	)
	return record, nil
}

func (s *Service) buildRecord(ctx context.Context, req models.RegisterRequest) (*models.LandRecord, error) {
	err := rules.RequireFields(
		rules.Field{Name: "land_id", Value: req.LandID},
		rules.Field{Name: "owner_name", Value: req.OwnerName},
		rules.Field{Name: "owner_nin", Value: req.OwnerNIN},
		rules.Field{Name: "location", Value: req.Location},
		rules.Field{Name: "district", Value: req.District},
		rules.Field{Name: "gps_coordinates", Value: req.GPSCoordinates},
		rules.Field{Name: "land_use", Value: req.LandUse},
	)
	if err != nil {
		return nil, err
	}
	if !req.Size.Valid {
		return nil, dErrors.New(dErrors.CodeMissingField, "size is required")
	}
	if !req.Size.Decimal.IsPositive() {
		return nil, dErrors.New(dErrors.CodeValidation, "size must be greater than zero")
	}
	landUse, ok := models.NormalizeLandUse(req.LandUse)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unsupported land use %q", req.LandUse)
	}

	return &models.LandRecord{
		LandID:           req.LandID,
		OwnerName:        pstrings.CollapseSpaces(req.OwnerName),
		OwnerNIN:         strings.ToUpper(req.OwnerNIN),
		Location:         req.Location,
		District:         req.District,
		SubCounty:        req.SubCounty,
		Village:          req.Village,
		Size:             req.Size.Decimal,
		Status:           models.StatusActive,
		RegistrationDate: requestcontext.Now(ctx),
		GPSCoordinates:   req.GPSCoordinates,
		LandUse:          landUse,
		Documents:        pstrings.DedupeFold(req.Documents),
	}, nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, landID string) (*models.LandRecord, error) {
	landID = strings.TrimSpace(landID)
	if landID == "" {
		return nil, dErrors.New(dErrors.CodeMissingField, "land_id is required")
	}
	record, err := s.store.FindByID(ctx, landID)
	if err != nil {
		return nil, s.translate(err, landID, "failed to load land record")
	}
	return record, nil
}

// List returns every record ordered by land id.
func (s *Service) List(ctx context.Context) ([]models.LandRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list land records")
	}
	return records, nil
}

// Search validates the query, waits the configured delay and then filters
// all records on the chosen field.
func (s *Service) Search(ctx context.Context, field, query string) ([]models.LandRecord, error) {
	ctx, span := s.tracer.Start(ctx, "land.Search")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		err := dErrors.New(dErrors.CodeEmptyQuery, "search query is required")
		s.recordFailure(ctx, span, err)
		return nil, err
	}
	f, err := search.ParseField(field)
	if err != nil {
		s.recordFailure(ctx, span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("search.field", string(f)))

	if err := delay.Wait(ctx, s.searchDelay); err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store list failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search land records")
	}
	matches, err := search.Filter(records, f, query)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("search.matches", len(matches)))
	s.metrics.RecordSearch(string(f), len(matches))
	s.logAudit(ctx, audit.EventRecordsSearched,
		"subject", "search:"+string(f),
		"detail", fmt.Sprintf("query=%q matches=%d", query, len(matches)),
	)
	return matches, nil
}

// MarkPendingTransfer flags an active record whose ownership transfer has
// started. A record that is already pending or disputed yields
// CodeConflict. Unknown land ids yield CodeNotFound; callers may ignore it.
func (s *Service) MarkPendingTransfer(ctx context.Context, landID string) error {
	_, err := s.store.Update(ctx, landID, func(r *models.LandRecord) error {
		if !r.MarkPendingTransfer() {
			return dErrors.Newf(dErrors.CodeConflict, "land %s is %s, a transfer cannot start", landID, r.Status)
		}
		return nil
	})
	if err != nil {
		return s.translate(err, landID, "failed to mark transfer pending")
	}
	return nil
}

// ReleasePendingTransfer returns a pending record to Active.
func (s *Service) ReleasePendingTransfer(ctx context.Context, landID string) error {
	_, err := s.store.Update(ctx, landID, func(r *models.LandRecord) error {
		r.ReleasePendingTransfer()
		return nil
	})
	if err != nil {
		return s.translate(err, landID, "failed to release pending transfer")
	}
	return nil
}

// CompleteTransfer hands the record to newOwner as of at.
func (s *Service) CompleteTransfer(ctx context.Context, landID, newOwner string, at time.Time) error {
	var previous string
	_, err := s.store.Update(ctx, landID, func(r *models.LandRecord) error {
		previous = r.OwnerName
		r.ApplyTransfer(newOwner, at)
		return nil
	})
	if err != nil {
		return s.translate(err, landID, "failed to apply ownership change")
	}
	s.logAudit(ctx, audit.EventOwnershipChanged,
		"land_id", landID,
		"detail", fmt.Sprintf("from=%s to=%s", previous, newOwner),
	)
	return nil
}

// Summary counts records by status.
func (s *Service) Summary(ctx context.Context) (models.Summary, error) {
	records, err := s.List(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	summary := models.Summary{Total: len(records), ByStatus: map[models.Status]int{}}
	for _, r := range records {
		summary.ByStatus[r.Status]++
	}
	return summary, nil
}

func (s *Service) translate(err error, landID, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "land %s not found", landID)
	case dErrors.CodeOf(err) != dErrors.CodeInternal:
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

func (s *Service) recordFailure(ctx context.Context, span trace.Span, err error) {
	code := dErrors.CodeOf(err)
	span.SetStatus(codes.Error, string(code))
	s.metrics.IncrementValidationFailure(string(code))
	s.logger.WarnContext(ctx, "land request rejected",
		"request_id", requestcontext.RequestID(ctx),
		"code", string(code),
		"error", err.Error(),
	)
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	s.logger.InfoContext(ctx, string(event), args...)
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Subject: attrs.First(attributes, "land_id", "subject"),
		Action:  string(event),
		Actor:   requestcontext.Role(ctx),
		Detail:  attrs.String(attributes, "detail"),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}
