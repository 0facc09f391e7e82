package dashboard

import (
	"context"
	"log/slog"

	"landregistry/internal/auth/models"
	land "landregistry/internal/land/models"
	dErrors "landregistry/pkg/domain-errors"
	"landregistry/pkg/platform/audit"
)

const recentActivityLimit = 4

// LandSummary reports live registry counts.
type LandSummary interface {
	Summary(ctx context.Context) (land.Summary, error)
}

// ActivityFeed lists recent audit events.
type ActivityFeed interface {
	Recent(ctx context.Context, limit int) ([]audit.Event, error)
}

// Dashboard is the full payload for GET /dashboard.
type Dashboard struct {
	RoleView
	Welcome          string        `json:"welcome"`
	Registry         *land.Summary `json:"registry,omitempty"`
	RecentActivities []Activity    `json:"recent_activities"`
	QuickActions     []QuickAction `json:"quick_actions"`
	SearchHint       string        `json:"search_hint"`
}

type Service struct {
	land   LandSummary
	feed   ActivityFeed
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithActivityFeed replaces the sample activity list with audit events.
func WithActivityFeed(feed ActivityFeed) Option {
	return func(s *Service) {
		s.feed = feed
	}
}

// NewService builds the dashboard. land may be nil.
func NewService(land LandSummary, opts ...Option) *Service {
	s := &Service{land: land, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build assembles the dashboard for a role given as free text. An empty role
// means administrator.
func (s *Service) Build(ctx context.Context, rawRole string) (*Dashboard, error) {
	role := models.RoleAdministrator
	if rawRole != "" {
		parsed, ok := models.ParseRole(rawRole)
		if !ok {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown role %q", rawRole)
		}
		role = parsed
	}
	view, _ := ViewFor(role)

	d := &Dashboard{
		RoleView:         view,
		Welcome:          "Welcome back! Here's an overview of your current activities and pending tasks.",
		RecentActivities: s.recentActivities(ctx),
		QuickActions:     append([]QuickAction(nil), quickActions...),
		SearchHint:       "Search by Land ID, Owner Name, or GPS coordinates",
	}

	if s.land != nil {
		summary, err := s.land.Summary(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "dashboard registry summary unavailable", "error", err)
		} else {
			d.Registry = &summary
		}
	}
	return d, nil
}

func (s *Service) recentActivities(ctx context.Context) []Activity {
	if s.feed == nil {
		return append([]Activity(nil), sampleActivities...)
	}
	events, err := s.feed.Recent(ctx, recentActivityLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "dashboard activity feed unavailable", "error", err)
		return append([]Activity(nil), sampleActivities...)
	}
	if len(events) == 0 {
		return append([]Activity(nil), sampleActivities...)
	}
	out := make([]Activity, len(events))
	for i, e := range events {
		out[i] = activityFromEvent(e)
	}
	return out
}

var actionLabels = map[string]struct{ action, status string }{
	string(audit.EventLandRegistered):        {"Land Registration", "Completed"},
	string(audit.EventTransferInitiated):     {"Ownership Transfer", "Pending"},
	string(audit.EventTransferStepCompleted): {"Ownership Transfer", "In Review"},
	string(audit.EventTransferCompleted):     {"Ownership Transfer", "Completed"},
	string(audit.EventTransferReset):         {"Ownership Transfer", "Modified"},
	string(audit.EventOwnershipChanged):      {"Title Update", "Completed"},
	string(audit.EventSubdivisionSubmitted):  {"Land Subdivision", "In Review"},
	string(audit.EventRecordsSearched):       {"Record Search", "Completed"},
	string(audit.EventSignedIn):              {"Sign In", "Completed"},
}

func activityFromEvent(e audit.Event) Activity {
	label, ok := actionLabels[e.Action]
	if !ok {
		label.action, label.status = e.Action, "Completed"
	}
	return Activity{
		ID:     e.Subject,
		Action: label.action,
		Status: label.status,
		Date:   e.Timestamp.Format("2006-01-02"),
	}
}
