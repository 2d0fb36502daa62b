package branch

import (
	"context"
)

// Repository defines the interface for branch persistence. All listing
// methods return branches ordered by ID ascending, i.e. creation order.
type Repository interface {
	// Create persists a new branch and assigns its ID
	Create(ctx context.Context, b *Branch) error

	// Update updates an existing branch
	Update(ctx context.Context, b *Branch) error

	// FindByID finds a branch by ID
	FindByID(ctx context.Context, id int64) (*Branch, error)

	// FindActive returns all active branches in creation order
	FindActive(ctx context.Context) ([]*Branch, error)

	// FindAll returns all branches, active or not, in creation order
	FindAll(ctx context.Context) ([]*Branch, error)

	// FindByIDs returns the branches with the given IDs in creation order.
	// Unknown IDs are skipped, not errors.
	FindByIDs(ctx context.Context, ids []int64) ([]*Branch, error)
}
