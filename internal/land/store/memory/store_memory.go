package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"landregistry/internal/land/models"
	"landregistry/pkg/platform/sentinel"
)

// Error Contract:
// - Return ErrNotFound when the land id is not registered
// - Return ErrConflict when creating a land id that already exists
// - Callers receive copies; mutating a returned record never touches the store
// InMemory keeps land records in a map guarded by a RWMutex.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]*models.LandRecord
}

// New constructs an empty in-memory land store.
func New() *InMemory {
	return &InMemory{records: make(map[string]*models.LandRecord)}
}

func key(landID string) string {
	return strings.ToUpper(strings.TrimSpace(landID))
}

func (s *InMemory) Create(_ context.Context, record *models.LandRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(record.LandID)
	if _, exists := s.records[k]; exists {
		return fmt.Errorf("land %s: %w", record.LandID, sentinel.ErrConflict)
	}
	s.records[k] = clone(record)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, landID string) (*models.LandRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key(landID)]
	if !ok {
		return nil, fmt.Errorf("land %s: %w", landID, sentinel.ErrNotFound)
	}
	return clone(record), nil
}

// List returns all records ordered by land id.
func (s *InMemory) List(_ context.Context) ([]models.LandRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LandRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *clone(r))
	}
	slices.SortFunc(out, func(a, b models.LandRecord) int {
		return strings.Compare(a.LandID, b.LandID)
	})
	return out, nil
}

// Update loads the record, applies fn to a copy and stores the copy when fn
// succeeds. The lock is held for the whole read-modify-write.
func (s *InMemory) Update(_ context.Context, landID string, fn func(*models.LandRecord) error) (*models.LandRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(landID)
	current, ok := s.records[k]
	if !ok {
		return nil, fmt.Errorf("land %s: %w", landID, sentinel.ErrNotFound)
	}
	working := clone(current)
	if err := fn(working); err != nil {
		return nil, err
	}
	s.records[k] = working
	return clone(working), nil
}

func clone(r *models.LandRecord) *models.LandRecord {
	c := *r
	c.Documents = slices.Clone(r.Documents)
	if r.LastTransfer != nil {
		t := *r.LastTransfer
		c.LastTransfer = &t
	}
	return &c
}
