package cache

import (
	"context"
	"sync"

	"github.com/coffeecommand/backend/internal/application/access"
	"github.com/google/uuid"
)

// InMemorySelectionStore keeps branch selections in a map. Suitable for
// single-instance deployments and testing; selections are lost on restart.
type InMemorySelectionStore struct {
	mu         sync.RWMutex
	selections map[uuid.UUID]int64
}

// NewInMemorySelectionStore creates a new in-memory selection store
func NewInMemorySelectionStore() *InMemorySelectionStore {
	return &InMemorySelectionStore{
		selections: make(map[uuid.UUID]int64),
	}
}

// Get returns the stored branch ID for the user; found is false on a miss
func (s *InMemorySelectionStore) Get(_ context.Context, userID uuid.UUID) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	branchID, found := s.selections[userID]
	return branchID, found, nil
}

// Set stores the user's selected branch
func (s *InMemorySelectionStore) Set(_ context.Context, userID uuid.UUID, branchID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections[userID] = branchID
	return nil
}

// Ensure InMemorySelectionStore implements SelectionStore
var _ access.SelectionStore = (*InMemorySelectionStore)(nil)
