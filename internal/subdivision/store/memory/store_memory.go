package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"landregistry/internal/subdivision/models"
	"landregistry/pkg/platform/sentinel"
)

// InMemory holds submitted subdivisions in insertion order.
type InMemory struct {
	mu          sync.RWMutex
	submissions map[string]*models.Submission
	order       []string
}

func New() *InMemory {
	return &InMemory{submissions: make(map[string]*models.Submission)}
}

func (s *InMemory) Create(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submissions[sub.ID]; exists {
		return fmt.Errorf("subdivision %s: %w", sub.ID, sentinel.ErrConflict)
	}
	s.submissions[sub.ID] = clone(sub)
	s.order = append(s.order, sub.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, fmt.Errorf("subdivision %s: %w", id, sentinel.ErrNotFound)
	}
	return clone(sub), nil
}

// ListByLand returns submissions for one original land id, oldest first.
func (s *InMemory) ListByLand(_ context.Context, landID string) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Submission{}
	for _, id := range s.order {
		if sub := s.submissions[id]; sub.OriginalLandID == landID {
			out = append(out, clone(sub))
		}
	}
	return out, nil
}

func clone(sub *models.Submission) *models.Submission {
	c := *sub
	c.Parcels = slices.Clone(sub.Parcels)
	return &c
}
