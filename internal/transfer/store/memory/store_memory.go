package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"landregistry/internal/transfer/models"
	"landregistry/pkg/platform/sentinel"
)

// InMemory is the default transfer store. Transfers vanish on restart.
type InMemory struct {
	mu        sync.RWMutex
	transfers map[string]*models.Transfer
}

func New() *InMemory {
	return &InMemory{transfers: make(map[string]*models.Transfer)}
}

func (s *InMemory) Create(_ context.Context, transfer *models.Transfer) error {
	if err := transfer.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transfers[transfer.ID]; exists {
		return fmt.Errorf("transfer %s: %w", transfer.ID, sentinel.ErrConflict)
	}
	s.transfers[transfer.ID] = transfer.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transfers[id]
	if !ok {
		return nil, fmt.Errorf("transfer %s: %w", id, sentinel.ErrNotFound)
	}
	return t.Clone(), nil
}

// Update applies fn to a copy under the write lock and keeps the copy only
// when fn succeeds and the result still satisfies the step invariants.
func (s *InMemory) Update(_ context.Context, id string, fn func(*models.Transfer) error) (*models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.transfers[id]
	if !ok {
		return nil, fmt.Errorf("transfer %s: %w", id, sentinel.ErrNotFound)
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	if err := working.Validate(); err != nil {
		return nil, err
	}
	s.transfers[id] = working
	return working.Clone(), nil
}

// List returns transfers, most recently updated first.
func (s *InMemory) List(_ context.Context) ([]*models.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Transfer, 0, len(s.transfers))
	for _, t := range s.transfers {
		out = append(out, t.Clone())
	}
	slices.SortFunc(out, func(a, b *models.Transfer) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out, nil
}
