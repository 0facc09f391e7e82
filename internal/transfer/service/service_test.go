package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"landregistry/internal/platform/logger"
	"landregistry/internal/platform/metrics"
	"landregistry/internal/transfer/models"
	"landregistry/internal/transfer/service/mocks"
	"landregistry/internal/transfer/store/memory"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/platform/audit"
	"landregistry/pkg/platform/audit/publisher"
	auditmemory "landregistry/pkg/platform/audit/store/memory"
	"landregistry/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	land       *mocks.MockLandRegistry
	store      *memory.InMemory
	auditStore *auditmemory.InMemoryStore
	metrics    *metrics.Metrics
	service    *Service
	ctx        context.Context
	now        time.Time
	seq        int
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.land = mocks.NewMockLandRegistry(s.ctrl)
	s.store = memory.New()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.seq = 0
	s.service = New(s.store, s.land,
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
		WithIDGenerator(func() string {
			s.seq++
			return fmt.Sprintf("tr-%d", s.seq)
		}),
	)
	s.now = time.Date(2024, 2, 10, 8, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithRole(s.ctx, "registrar")
}

func details() models.Details {
	return models.Details{LandID: " LT-2024-001 ", CurrentOwner: "John Mukasa", NewOwner: "Jane Namukasa"}
}

func stepStatuses(t *models.Transfer) []models.StepStatus {
	out := make([]models.StepStatus, len(t.Steps))
	for i, step := range t.Steps {
		out[i] = step.Status
	}
	return out
}

func (s *ServiceSuite) initiate() *models.Transfer {
	s.land.EXPECT().MarkPendingTransfer(gomock.Any(), "LT-2024-001").Return(nil)
	transfer, err := s.service.Initiate(s.ctx, details())
	s.Require().NoError(err)
	return transfer
}

func (s *ServiceSuite) TestTemplate() {
	tmpl := s.service.Template()
	s.Len(tmpl.Steps, 4)
	for _, step := range tmpl.Steps {
		s.Equal(models.StepPending, step.Status)
	}
	s.Equal("UGX 375,000", tmpl.Fees.Total)
	s.Equal("UGX 0", tmpl.Fees.Paid)
}

func (s *ServiceSuite) TestInitiate() {
	transfer := s.initiate()

	s.Equal("tr-1", transfer.ID)
	s.Equal("LT-2024-001", transfer.LandID)
	s.Equal(models.StatusInProgress, transfer.Status)
	s.Equal("registrar", transfer.InitiatedBy)
	s.True(transfer.MarkedPending)
	s.Equal([]models.StepStatus{
		models.StepCompleted, models.StepCurrent, models.StepPending, models.StepPending,
	}, stepStatuses(transfer))
	s.Equal("UGX 150,000", transfer.Fees().Paid)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.TransfersInitiated))

	events, err := s.auditStore.ListBySubject(s.ctx, "tr-1")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventTransferInitiated), events[0].Action)
}

func (s *ServiceSuite) TestInitiateToleratesUnknownLand() {
	s.land.EXPECT().MarkPendingTransfer(gomock.Any(), "LT-2024-001").
		Return(dErrors.New(dErrors.CodeNotFound, "land LT-2024-001 not found"))

	transfer, err := s.service.Initiate(s.ctx, details())
	s.Require().NoError(err)
	s.Equal(models.StatusInProgress, transfer.Status)
	s.False(transfer.MarkedPending)
}

func (s *ServiceSuite) TestInitiateSurvivesRegistryFailure() {
	s.land.EXPECT().MarkPendingTransfer(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	transfer, err := s.service.Initiate(s.ctx, details())
	s.Require().NoError(err)
	_, err = s.store.FindByID(s.ctx, transfer.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestInitiateMissingFields() {
	tests := []struct {
		name    string
		details models.Details
	}{
		{"land id", models.Details{CurrentOwner: "A", NewOwner: "B"}},
		{"current owner", models.Details{LandID: "LT-1", CurrentOwner: "  ", NewOwner: "B"}},
		{"new owner", models.Details{LandID: "LT-1", CurrentOwner: "A"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Initiate(s.ctx, tt.details)
			s.True(dErrors.HasCode(err, dErrors.CodeMissingField), "got %v", err)
		})
	}

	list, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
	s.Equal(3.0, promtest.ToFloat64(s.metrics.ValidationFailures.WithLabelValues(string(dErrors.CodeMissingField))))
}

func (s *ServiceSuite) TestCompleteStepsThroughToOwnershipChange() {
	transfer := s.initiate()

	_, step, err := s.service.CompleteStep(s.ctx, transfer.ID)
	s.Require().NoError(err)
	s.Equal(models.StepSurveyor, step.ID)

	_, step, err = s.service.CompleteStep(s.ctx, transfer.ID)
	s.Require().NoError(err)
	s.Equal(models.StepValuer, step.ID)

	s.land.EXPECT().CompleteTransfer(gomock.Any(), "LT-2024-001", "Jane Namukasa", s.now).Return(nil)
	done, step, err := s.service.CompleteStep(s.ctx, transfer.ID)
	s.Require().NoError(err)
	s.Equal(models.StepRegistrar, step.ID)
	s.Equal(models.StatusCompleted, done.Status)
	s.Equal("UGX 0", done.Fees().Remaining)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.TransfersCompleted))
	s.Equal(1.0, promtest.ToFloat64(s.metrics.TransferStepsCompleted.WithLabelValues(string(models.StepRegistrar))))

	_, _, err = s.service.CompleteStep(s.ctx, transfer.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

	events, err := s.auditStore.ListBySubject(s.ctx, transfer.ID)
	s.Require().NoError(err)
	actions := make([]string, len(events))
	for i, e := range events {
		actions[i] = e.Action
	}
	s.Contains(actions, string(audit.EventTransferCompleted))
}

func (s *ServiceSuite) TestInitiateRejectsLandAlreadyPending() {
	s.land.EXPECT().MarkPendingTransfer(gomock.Any(), "LT-2024-001").
		Return(dErrors.New(dErrors.CodeConflict, "land LT-2024-001 is Pending Transfer, a transfer cannot start"))

	_, err := s.service.Initiate(s.ctx, details())
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "got %v", err)

	list, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServiceSuite) TestCompleteWithoutHoldingLandLeavesOwner() {
	s.land.EXPECT().MarkPendingTransfer(gomock.Any(), "LT-2024-001").
		Return(dErrors.New(dErrors.CodeNotFound, "land LT-2024-001 not found"))
	transfer, err := s.service.Initiate(s.ctx, details())
	s.Require().NoError(err)

	s.land.EXPECT().CompleteTransfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.land.EXPECT().ReleasePendingTransfer(gomock.Any(), gomock.Any()).Times(0)
	for range 3 {
		_, _, err = s.service.CompleteStep(s.ctx, transfer.ID)
		s.Require().NoError(err)
	}
	got, err := s.service.Get(s.ctx, transfer.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, got.Status)
}

func (s *ServiceSuite) TestCreateFailureReleasesHeldLand() {
	store := mocks.NewMockStore(s.ctrl)
	svc := New(store, s.land, WithLogger(logger.Discard()))
	s.land.EXPECT().MarkPendingTransfer(gomock.Any(), "LT-2024-001").Return(nil)
	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("redis: connection refused"))
	s.land.EXPECT().ReleasePendingTransfer(gomock.Any(), "LT-2024-001").Return(nil)

	_, err := svc.Initiate(s.ctx, details())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestCompleteStepUnknownTransfer() {
	_, _, err := s.service.CompleteStep(s.ctx, "nope")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestResetReleasesLandAndRestart() {
	transfer := s.initiate()

	s.land.EXPECT().ReleasePendingTransfer(gomock.Any(), "LT-2024-001").Return(nil)
	newDetails := models.Details{LandID: "LT-2024-002", CurrentOwner: "Sarah Nakato", NewOwner: "Peter Okot"}
	reset, err := s.service.Reset(s.ctx, transfer.ID, newDetails)
	s.Require().NoError(err)
	s.Equal(models.StatusDraft, reset.Status)
	s.Equal("LT-2024-002", reset.LandID)
	s.Equal([]models.StepStatus{
		models.StepPending, models.StepPending, models.StepPending, models.StepPending,
	}, stepStatuses(reset))

	s.False(reset.MarkedPending)

	s.land.EXPECT().MarkPendingTransfer(gomock.Any(), "LT-2024-002").Return(nil)
	restarted, err := s.service.Restart(s.ctx, transfer.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInProgress, restarted.Status)
	s.True(restarted.MarkedPending)
	stored, err := s.store.FindByID(s.ctx, transfer.ID)
	s.Require().NoError(err)
	s.True(stored.MarkedPending)
	s.Equal(models.StepCurrent, restarted.Steps[1].Status)

	_, err = s.service.Restart(s.ctx, transfer.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
}

func (s *ServiceSuite) TestResetValidatesDetails() {
	transfer := s.initiate()
	_, err := s.service.Reset(s.ctx, transfer.ID, models.Details{LandID: "LT-2024-001"})
	s.True(dErrors.HasCode(err, dErrors.CodeMissingField))

	got, err := s.service.Get(s.ctx, transfer.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInProgress, got.Status)
}

func (s *ServiceSuite) TestResetDraftDoesNotReleaseLand() {
	transfer := s.initiate()
	s.land.EXPECT().ReleasePendingTransfer(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	_, err := s.service.Reset(s.ctx, transfer.ID, details())
	s.Require().NoError(err)

	_, err = s.service.Reset(s.ctx, transfer.ID, details())
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestWithoutLandRegistry() {
	svc := New(memory.New(), nil, WithLogger(logger.Discard()))
	transfer, err := svc.Initiate(s.ctx, details())
	s.Require().NoError(err)
	for range 3 {
		_, _, err = svc.CompleteStep(s.ctx, transfer.ID)
		s.Require().NoError(err)
	}
	got, err := svc.Get(s.ctx, transfer.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, got.Status)
}

func (s *ServiceSuite) TestStoreFailureIsInternal() {
	store := mocks.NewMockStore(s.ctrl)
	svc := New(store, nil, WithLogger(logger.Discard()))
	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("redis: connection refused"))

	_, err := svc.Initiate(s.ctx, details())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
