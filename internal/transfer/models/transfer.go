package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dErrors "landregistry/pkg/domain-errors"
)

// Status is the lifecycle state of a transfer.
type Status string

const (
	// StatusDraft holds details that have not been submitted, either fresh
	// or after Reset.
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Step is one step of a particular transfer.
type Step struct {
	ID          StepID          `json:"id"`
	Position    int             `json:"position"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Fee         string          `json:"fee"`
	FeeAmount   decimal.Decimal `json:"fee_amount"`
	Status      StepStatus      `json:"status"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Details are the three fields the transfer form collects.
type Details struct {
	LandID       string `json:"land_id"`
	CurrentOwner string `json:"current_owner"`
	NewOwner     string `json:"new_owner"`
}

// Normalize trims each field.
func (d Details) Normalize() Details {
	return Details{
		LandID:       strings.TrimSpace(d.LandID),
		CurrentOwner: strings.TrimSpace(d.CurrentOwner),
		NewOwner:     strings.TrimSpace(d.NewOwner),
	}
}

// Transfer is an ownership transfer moving through the fixed step sequence.
//
// Invariants:
//   - Steps are in definition order
//   - Completed steps form a prefix of Steps
//   - At most one step is current, and it directly follows the prefix
//   - Draft: every step pending
//   - InProgress: exactly one current step
//   - Completed: every step completed
type Transfer struct {
	ID string `json:"id"`
	Details
	Status      Status     `json:"status"`
	Steps       []Step     `json:"steps"`
	InitiatedBy string     `json:"initiated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	InitiatedAt *time.Time `json:"initiated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// MarkedPending is set while this transfer holds the land record's
	// Pending Transfer flag. Only the holder releases the flag or hands the
	// record to the new owner.
	MarkedPending bool `json:"marked_pending,omitempty"`
}

// NewSteps builds the step list with every step pending.
func NewSteps() []Step {
	defs := StepDefinitions()
	steps := make([]Step, len(defs))
	for i, d := range defs {
		steps[i] = Step{
			ID:          d.ID,
			Position:    i + 1,
			Title:       d.Title,
			Description: d.Description,
			Fee:         FormatUGX(d.Fee),
			FeeAmount:   d.Fee,
			Status:      StepPending,
		}
	}
	return steps
}

// NewTransfer creates a draft transfer.
func NewTransfer(id string, details Details, now time.Time) *Transfer {
	return &Transfer{
		ID:        id,
		Details:   details.Normalize(),
		Status:    StatusDraft,
		Steps:     NewSteps(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Initiate starts a draft transfer. Stamp duty is paid on submission, so the
// first step completes immediately and the second becomes current.
func (t *Transfer) Initiate(now time.Time) error {
	if t.Status != StatusDraft {
		return dErrors.Newf(dErrors.CodeInvalidState, "transfer %s is %s, only a draft can be initiated", t.ID, t.Status)
	}
	t.Status = StatusInProgress
	initiated := now
	t.InitiatedAt = &initiated
	t.UpdatedAt = now
	t.Steps[0].Status = StepCurrent
	_, err := t.CompleteCurrentStep(now)
	return err
}

// CompleteCurrentStep completes the current step and makes the next one
// current. Completing the last step completes the transfer. It returns the
// step that was completed.
func (t *Transfer) CompleteCurrentStep(now time.Time) (Step, error) {
	if t.Status != StatusInProgress {
		return Step{}, dErrors.Newf(dErrors.CodeInvalidState, "transfer %s is %s, no step can be completed", t.ID, t.Status)
	}
	idx := t.currentIndex()
	if idx < 0 {
		return Step{}, dErrors.Newf(dErrors.CodeInvariantViolation, "transfer %s has no current step", t.ID)
	}

	completedAt := now
	t.Steps[idx].Status = StepCompleted
	t.Steps[idx].CompletedAt = &completedAt
	t.UpdatedAt = now

	if idx+1 < len(t.Steps) {
		t.Steps[idx+1].Status = StepCurrent
	} else {
		t.Status = StatusCompleted
		t.CompletedAt = &completedAt
	}
	return t.Steps[idx], nil
}

// Reset returns an unfinished transfer to draft with new details, clearing
// all progress.
func (t *Transfer) Reset(details Details, now time.Time) error {
	if t.Status == StatusCompleted {
		return dErrors.Newf(dErrors.CodeInvalidState, "transfer %s is completed and cannot be modified", t.ID)
	}
	t.Details = details.Normalize()
	t.Status = StatusDraft
	t.Steps = NewSteps()
	t.InitiatedAt = nil
	t.MarkedPending = false
	t.UpdatedAt = now
	return nil
}

// CurrentStep returns the current step, if any.
func (t *Transfer) CurrentStep() (Step, bool) {
	idx := t.currentIndex()
	if idx < 0 {
		return Step{}, false
	}
	return t.Steps[idx], true
}

func (t *Transfer) currentIndex() int {
	for i, s := range t.Steps {
		if s.Status == StepCurrent {
			return i
		}
	}
	return -1
}

// Validate checks the structural invariants.
func (t *Transfer) Validate() error {
	defs := StepDefinitions()
	if len(t.Steps) != len(defs) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "transfer has %d steps, want %d", len(t.Steps), len(defs))
	}
	completed, current := 0, 0
	for i, s := range t.Steps {
		if s.ID != defs[i].ID {
			return dErrors.Newf(dErrors.CodeInvariantViolation, "step %d is %s, want %s", i+1, s.ID, defs[i].ID)
		}
		switch s.Status {
		case StepCompleted:
			if current > 0 || completed != i {
				return dErrors.New(dErrors.CodeInvariantViolation, "completed steps must form a prefix")
			}
			completed++
		case StepCurrent:
			if current > 0 || completed != i {
				return dErrors.New(dErrors.CodeInvariantViolation, "current step must directly follow the completed steps")
			}
			current++
		case StepPending:
		default:
			return dErrors.Newf(dErrors.CodeInvariantViolation, "unknown step status %q", s.Status)
		}
	}

	var ok bool
	switch t.Status {
	case StatusDraft:
		ok = completed == 0 && current == 0
	case StatusInProgress:
		ok = current == 1
	case StatusCompleted:
		ok = completed == len(t.Steps)
	}
	if !ok {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("status %s inconsistent with %d completed and %d current steps", t.Status, completed, current))
	}
	return nil
}

// FeeSummary totals the workflow fees.
type FeeSummary struct {
	Total     string `json:"total"`
	Paid      string `json:"paid"`
	Remaining string `json:"remaining"`
}

// Fees sums fees over all steps and over completed steps.
func (t *Transfer) Fees() FeeSummary {
	total, paid := decimal.Zero, decimal.Zero
	for _, s := range t.Steps {
		total = total.Add(s.FeeAmount)
		if s.Status == StepCompleted {
			paid = paid.Add(s.FeeAmount)
		}
	}
	return FeeSummary{
		Total:     FormatUGX(total),
		Paid:      FormatUGX(paid),
		Remaining: FormatUGX(total.Sub(paid)),
	}
}

// Clone returns a deep copy.
func (t *Transfer) Clone() *Transfer {
	c := *t
	c.Steps = make([]Step, len(t.Steps))
	for i, s := range t.Steps {
		c.Steps[i] = s
		if s.CompletedAt != nil {
			at := *s.CompletedAt
			c.Steps[i].CompletedAt = &at
		}
	}
	if t.InitiatedAt != nil {
		at := *t.InitiatedAt
		c.InitiatedAt = &at
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}
