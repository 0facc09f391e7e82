package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"landregistry/internal/platform/metrics"
	"landregistry/internal/rules"
	"landregistry/internal/transfer/models"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/platform/audit"
	"landregistry/pkg/platform/sentinel"
	"landregistry/pkg/requestcontext"
)

// Store persists transfers. Update runs fn against the latest copy and
// saves the result only when fn succeeds.
type Store interface {
	Create(ctx context.Context, transfer *models.Transfer) error
	FindByID(ctx context.Context, id string) (*models.Transfer, error)
	Update(ctx context.Context, id string, fn func(*models.Transfer) error) (*models.Transfer, error)
	List(ctx context.Context) ([]*models.Transfer, error)
}

// LandRegistry applies the record side of a transfer. Unknown land ids
// return CodeNotFound, which the service tolerates. MarkPendingTransfer
// returns CodeConflict when the record is not free to transfer.
type LandRegistry interface {
	MarkPendingTransfer(ctx context.Context, landID string) error
	ReleasePendingTransfer(ctx context.Context, landID string) error
	CompleteTransfer(ctx context.Context, landID, newOwner string, at time.Time) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service drives transfers through the step workflow.
type Service struct {
	store          Store
	land           LandRegistry
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	newID          func() string
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

// WithIDGenerator overrides transfer id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// New constructs a Service. land may be nil when transfers should not touch
// registry records.
func New(store Store, land LandRegistry, opts ...Option) *Service {
	s := &Service{
		store:  store,
		land:   land,
		logger: slog.Default(),
		tracer: otel.Tracer("landregistry/transfer"),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Template is the blank workflow shown before a transfer is submitted.
type Template struct {
	Steps []models.Step     `json:"steps"`
	Fees  models.FeeSummary `json:"fees"`
}

// Template returns the step list with every step pending.
func (s *Service) Template() Template {
	t := models.NewTransfer("", models.Details{}, time.Time{})
	return Template{Steps: t.Steps, Fees: t.Fees()}
}

// Initiate validates the details, creates the transfer and starts it.
func (s *Service) Initiate(ctx context.Context, details models.Details) (*models.Transfer, error) {
	ctx, span := s.tracer.Start(ctx, "transfer.Initiate")
	defer span.End()

	details = details.Normalize()
	if err := rules.ValidateTransferRequest(details.LandID, details.CurrentOwner, details.NewOwner); err != nil {
		s.recordFailure(ctx, span, err)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	transfer := models.NewTransfer(s.newID(), details, now)
	transfer.InitiatedBy = requestcontext.Role(ctx)
	if err := transfer.Initiate(now); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("transfer.id", transfer.ID), attribute.String("land.id", transfer.LandID))

	held, err := s.markPending(ctx, transfer.LandID)
	if err != nil {
		s.recordFailure(ctx, span, err)
		return nil, err
	}
	transfer.MarkedPending = held
	if err := s.store.Create(ctx, transfer); err != nil {
		if transfer.MarkedPending {
			s.releasePending(ctx, transfer.LandID)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "store create failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save transfer")
	}

	s.metrics.IncrementTransfersInitiated()
	s.metrics.IncrementTransferStepCompleted(string(models.StepStampDuty))
	s.logAudit(ctx, audit.EventTransferInitiated, transfer,
		fmt.Sprintf("from=%s to=%s", transfer.CurrentOwner, transfer.NewOwner))
	return transfer, nil
}

// Restart initiates a draft transfer, typically one that was Reset.
func (s *Service) Restart(ctx context.Context, id string) (*models.Transfer, error) {
	ctx, span := s.tracer.Start(ctx, "transfer.Restart", trace.WithAttributes(attribute.String("transfer.id", id)))
	defer span.End()

	draft, err := s.store.FindByID(ctx, id)
	if err != nil {
		err = s.translate(err, id)
		s.recordFailure(ctx, span, err)
		return nil, err
	}
	if err := rules.ValidateTransferRequest(draft.LandID, draft.CurrentOwner, draft.NewOwner); err != nil {
		s.recordFailure(ctx, span, err)
		return nil, err
	}
	if draft.Status != models.StatusDraft {
		err := dErrors.Newf(dErrors.CodeInvalidState, "transfer %s is %s, only a draft can be initiated", id, draft.Status)
		s.recordFailure(ctx, span, err)
		return nil, err
	}

	held, err := s.markPending(ctx, draft.LandID)
	if err != nil {
		s.recordFailure(ctx, span, err)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	transfer, err := s.store.Update(ctx, id, func(t *models.Transfer) error {
		if t.LandID != draft.LandID {
			return sentinel.ErrConflict
		}
		if err := t.Initiate(now); err != nil {
			return err
		}
		t.MarkedPending = held
		return nil
	})
	if err != nil {
		if held {
			s.releasePending(ctx, draft.LandID)
		}
		err = s.translate(err, id)
		s.recordFailure(ctx, span, err)
		return nil, err
	}

	s.metrics.IncrementTransfersInitiated()
	s.metrics.IncrementTransferStepCompleted(string(models.StepStampDuty))
	s.logAudit(ctx, audit.EventTransferInitiated, transfer,
		fmt.Sprintf("from=%s to=%s", transfer.CurrentOwner, transfer.NewOwner))
	return transfer, nil
}

// CompleteStep completes the current step. When that was the last step the
// land record passes to the new owner.
func (s *Service) CompleteStep(ctx context.Context, id string) (*models.Transfer, models.Step, error) {
	ctx, span := s.tracer.Start(ctx, "transfer.CompleteStep", trace.WithAttributes(attribute.String("transfer.id", id)))
	defer span.End()

	now := requestcontext.Now(ctx)
	var completed models.Step
	var heldPending bool
	transfer, err := s.store.Update(ctx, id, func(t *models.Transfer) error {
		step, err := t.CompleteCurrentStep(now)
		if err != nil {
			return err
		}
		completed = step
		heldPending = t.MarkedPending
		if t.Status == models.StatusCompleted {
			t.MarkedPending = false
		}
		return nil
	})
	if err != nil {
		err = s.translate(err, id)
		s.recordFailure(ctx, span, err)
		return nil, models.Step{}, err
	}
	span.SetAttributes(attribute.String("transfer.step", string(completed.ID)))

	s.metrics.IncrementTransferStepCompleted(string(completed.ID))
	s.logAudit(ctx, audit.EventTransferStepCompleted, transfer, "step="+string(completed.ID))

	if transfer.Status == models.StatusCompleted {
		if heldPending {
			s.completeOwnership(ctx, transfer, now)
		} else {
			s.logger.InfoContext(ctx, "ownership change not applied, transfer did not hold the land record",
				"request_id", requestcontext.RequestID(ctx),
				"transfer_id", transfer.ID,
				"land_id", transfer.LandID,
			)
		}
		s.metrics.IncrementTransfersCompleted()
		s.logAudit(ctx, audit.EventTransferCompleted, transfer,
			fmt.Sprintf("from=%s to=%s", transfer.CurrentOwner, transfer.NewOwner))
	}
	return transfer, completed, nil
}

// Reset discards progress and replaces the details, leaving a draft.
func (s *Service) Reset(ctx context.Context, id string, details models.Details) (*models.Transfer, error) {
	ctx, span := s.tracer.Start(ctx, "transfer.Reset", trace.WithAttributes(attribute.String("transfer.id", id)))
	defer span.End()

	details = details.Normalize()
	if err := rules.ValidateTransferRequest(details.LandID, details.CurrentOwner, details.NewOwner); err != nil {
		s.recordFailure(ctx, span, err)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var previous models.Details
	var heldPending bool
	transfer, err := s.store.Update(ctx, id, func(t *models.Transfer) error {
		previous = t.Details
		heldPending = t.MarkedPending
		return t.Reset(details, now)
	})
	if err != nil {
		err = s.translate(err, id)
		s.recordFailure(ctx, span, err)
		return nil, err
	}

	if heldPending {
		s.releasePending(ctx, previous.LandID)
	}
	s.logAudit(ctx, audit.EventTransferReset, transfer,
		fmt.Sprintf("previous_land=%s previous_new_owner=%s", previous.LandID, previous.NewOwner))
	return transfer, nil
}

// Get returns one transfer.
func (s *Service) Get(ctx context.Context, id string) (*models.Transfer, error) {
	transfer, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	return transfer, nil
}

// List returns transfers, most recently updated first.
func (s *Service) List(ctx context.Context) ([]*models.Transfer, error) {
	transfers, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transfers")
	}
	return transfers, nil
}

// markPending flags the land record for this transfer and reports whether
// it did. A record that is not free to transfer is the caller's error; an
// unknown or unreachable record is tolerated.
func (s *Service) markPending(ctx context.Context, landID string) (bool, error) {
	if s.land == nil {
		return false, nil
	}
	err := s.land.MarkPendingTransfer(ctx, landID)
	switch {
	case err == nil:
		return true, nil
	case dErrors.HasCode(err, dErrors.CodeConflict):
		return false, err
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		return false, nil
	default:
		s.logger.WarnContext(ctx, "failed to mark land pending transfer",
			"request_id", requestcontext.RequestID(ctx),
			"land_id", landID,
			"error", err,
		)
		return false, nil
	}
}

func (s *Service) releasePending(ctx context.Context, landID string) {
	if s.land == nil {
		return
	}
	if err := s.land.ReleasePendingTransfer(ctx, landID); err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
		s.logger.WarnContext(ctx, "failed to release land pending transfer",
			"request_id", requestcontext.RequestID(ctx),
			"land_id", landID,
			"error", err,
		)
	}
}

func (s *Service) completeOwnership(ctx context.Context, t *models.Transfer, at time.Time) {
	if s.land == nil {
		return
	}
	if err := s.land.CompleteTransfer(ctx, t.LandID, t.NewOwner, at); err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
		s.logger.ErrorContext(ctx, "failed to apply ownership change",
			"request_id", requestcontext.RequestID(ctx),
			"transfer_id", t.ID,
			"land_id", t.LandID,
			"error", err,
		)
	}
}

func (s *Service) translate(err error, id string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "transfer %s not found", id)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Newf(dErrors.CodeConflict, "transfer %s was modified concurrently, retry", id)
	case dErrors.CodeOf(err) != dErrors.CodeInternal:
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update transfer")
	}
}

func (s *Service) recordFailure(ctx context.Context, span trace.Span, err error) {
	code := dErrors.CodeOf(err)
	span.SetStatus(codes.Error, string(code))
	if code == dErrors.CodeInternal {
		span.RecordError(err)
		return
	}
	s.metrics.IncrementValidationFailure(string(code))
	s.logger.WarnContext(ctx, "transfer request rejected",
		"request_id", requestcontext.RequestID(ctx),
		"code", string(code),
		"error", err.Error(),
	)
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, t *models.Transfer, detail string) {
	s.logger.InfoContext(ctx, string(event),
		"transfer_id", t.ID,
		"land_id", t.LandID,
		"detail", detail,
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Subject: t.ID,
		Action:  string(event),
		Actor:   requestcontext.Role(ctx),
		Detail:  fmt.Sprintf("land=%s %s", t.LandID, detail),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}
