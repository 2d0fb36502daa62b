package identity

import (
	"time"

	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BranchGrant associates a worker with a branch at a permission level.
// A user holds at most one grant per branch.
type BranchGrant struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	BranchID  int64
	Level     PermissionLevel
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBranchGrant creates a grant for a worker on a branch
func NewBranchGrant(userID uuid.UUID, branchID int64, level PermissionLevel) (*BranchGrant, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if branchID <= 0 {
		return nil, shared.NewDomainError("INVALID_BRANCH_ID", "Branch ID must be positive")
	}
	if _, err := ParsePermissionLevel(string(level)); err != nil {
		return nil, err
	}

	now := time.Now()
	return &BranchGrant{
		ID:        uuid.New(),
		UserID:    userID,
		BranchID:  branchID,
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChangeLevel updates the grant's permission level
func (g *BranchGrant) ChangeLevel(level PermissionLevel) error {
	if _, err := ParsePermissionLevel(string(level)); err != nil {
		return err
	}
	g.Level = level
	g.UpdatedAt = time.Now()
	return nil
}
