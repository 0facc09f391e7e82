package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so sinks
// can route and retain them differently.
type EventCategory string

const (
	// CategoryRegistry covers events that change who holds what land, or
	// would in a real registry: registration, transfer, subdivision.
	CategoryRegistry EventCategory = "registry"

	// CategoryAccess covers sign-in and record lookups.
	CategoryAccess EventCategory = "access"

	// CategoryOperations covers routine workflow progress.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from services to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// Subject is the registry entity the action concerns: a land id, a
	// transfer id or a subdivision id.
	Subject string `json:"subject"`
	Action  string `json:"action"`
	// Actor is whoever claims to have acted: an email or a role name.
	Actor     string `json:"actor,omitempty"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	Device    string `json:"device,omitempty"`
}

type AuditEvent string

const (
	EventLandRegistered        AuditEvent = "land_registered"
	EventTransferInitiated     AuditEvent = "transfer_initiated"
	EventTransferStepCompleted AuditEvent = "transfer_step_completed"
	EventTransferCompleted     AuditEvent = "transfer_completed"
	EventTransferReset         AuditEvent = "transfer_reset"
	EventOwnershipChanged      AuditEvent = "ownership_changed"
	EventSubdivisionSubmitted  AuditEvent = "subdivision_submitted"
	EventRecordsSearched       AuditEvent = "records_searched"
	EventSignedIn              AuditEvent = "signed_in"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventLandRegistered:       CategoryRegistry,
	EventTransferInitiated:    CategoryRegistry,
	EventTransferCompleted:    CategoryRegistry,
	EventOwnershipChanged:     CategoryRegistry,
	EventSubdivisionSubmitted: CategoryRegistry,

	EventRecordsSearched: CategoryAccess,
	EventSignedIn:        CategoryAccess,

	EventTransferStepCompleted: CategoryOperations,
	EventTransferReset:         CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Sink receives a copy of every persisted event, e.g. a message stream.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
