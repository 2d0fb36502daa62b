package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll returns users with pagination, workers first by username
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	// ExistsByUsername checks if a username already exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// GrantRepository defines the interface for branch grant persistence
type GrantRepository interface {
	// FindByUser returns all grants held by a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]BranchGrant, error)

	// FindByUserAndBranch returns the user's grant on a branch, nil when absent
	FindByUserAndBranch(ctx context.Context, userID uuid.UUID, branchID int64) (*BranchGrant, error)

	// Upsert creates the grant or updates its level when the pair exists
	Upsert(ctx context.Context, grant *BranchGrant) error

	// Delete removes the user's grant on a branch
	Delete(ctx context.Context, userID uuid.UUID, branchID int64) error

	// ReplaceAll atomically replaces every grant the user holds with the
	// given set. Used by grant-all and limit-to-single-branch so no partial
	// state is ever observable.
	ReplaceAll(ctx context.Context, userID uuid.UUID, grants []BranchGrant) error

	// FindAllGrouped returns all grants keyed by user, for the admin overview
	FindAllGrouped(ctx context.Context) (map[uuid.UUID][]BranchGrant, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	Keyword string
	Role    *Role
	Active  *bool

	Page     int
	PageSize int
}

// NewUserFilter creates a new UserFilter with default values
func NewUserFilter() UserFilter {
	return UserFilter{
		Page:     1,
		PageSize: 20,
	}
}

// WithKeyword sets the search keyword
func (f UserFilter) WithKeyword(keyword string) UserFilter {
	f.Keyword = keyword
	return f
}

// WithRole sets the role filter
func (f UserFilter) WithRole(role Role) UserFilter {
	f.Role = &role
	return f
}

// WithActive sets the active filter
func (f UserFilter) WithActive(active bool) UserFilter {
	f.Active = &active
	return f
}

// Offset returns the offset for pagination
func (f UserFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f UserFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
