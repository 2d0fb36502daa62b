package access

import (
	"context"

	"github.com/coffeecommand/backend/internal/domain/branch"
	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SelectionStore persists a user's last selected branch between sessions.
// A miss is not an error; the resolver just falls through to the next step.
type SelectionStore interface {
	// Get returns the stored branch ID for the user; found is false on a miss
	Get(ctx context.Context, userID uuid.UUID) (branchID int64, found bool, err error)

	// Set stores the user's selected branch
	Set(ctx context.Context, userID uuid.UUID, branchID int64) error
}

// BranchAccess is one branch a principal can reach, annotated with the level
// it can act at
type BranchAccess struct {
	ID       int64                    `json:"id"`
	Name     string                   `json:"name"`
	Location string                   `json:"location"`
	IsActive bool                     `json:"is_active"`
	Level    identity.PermissionLevel `json:"level"`
}

// ActiveBranchResolution is the outcome of resolving which branch a session
// should act on
type ActiveBranchResolution struct {
	Active    BranchAccess   `json:"active"`
	Available []BranchAccess `json:"available"`
}

// BranchAccessService answers which branches a principal can reach and which
// one a session should act on
type BranchAccessService struct {
	branchRepo branch.Repository
	selections SelectionStore
	logger     *zap.Logger
}

// NewBranchAccessService creates a new BranchAccessService
func NewBranchAccessService(branchRepo branch.Repository, selections SelectionStore, logger *zap.Logger) *BranchAccessService {
	return &BranchAccessService{
		branchRepo: branchRepo,
		selections: selections,
		logger:     logger,
	}
}

// BranchesFor returns the branches the principal can reach, in creation
// order. Admins see every active branch at full access; workers see exactly
// their granted branches, each at its granted level. Branches the principal
// has no grant on are simply absent.
func (s *BranchAccessService) BranchesFor(ctx context.Context, principal identity.Principal) ([]BranchAccess, error) {
	if principal.IsAdmin() {
		branches, err := s.branchRepo.FindActive(ctx)
		if err != nil {
			return nil, err
		}
		result := make([]BranchAccess, 0, len(branches))
		for _, b := range branches {
			result = append(result, toBranchAccess(b, identity.PermissionFullAccess))
		}
		return result, nil
	}

	ids := principal.GrantedBranchIDs()
	if len(ids) == 0 {
		return []BranchAccess{}, nil
	}

	branches, err := s.branchRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]BranchAccess, 0, len(branches))
	for _, b := range branches {
		if !b.IsActive {
			continue
		}
		grant, ok := principal.GrantFor(b.ID)
		if !ok {
			continue
		}
		result = append(result, toBranchAccess(b, grant.Level))
	}
	return result, nil
}

// ResolveActiveBranch picks the branch a session acts on:
//  1. an explicitly requested branch the principal can reach wins;
//  2. otherwise the persisted last selection, if still reachable;
//  3. otherwise the first available branch in creation order;
//  4. no available branches means ErrNoBranchAvailable.
//
// Whenever the outcome differs from what the client asked for, the resolved
// ID is written back to the selection store so the next session starts there.
// The write-back is idempotent and best-effort; a store failure never fails
// the resolution.
func (s *BranchAccessService) ResolveActiveBranch(ctx context.Context, principal identity.Principal, requested *int64) (*ActiveBranchResolution, error) {
	available, err := s.BranchesFor(ctx, principal)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, shared.ErrNoBranchAvailable
	}

	if requested != nil {
		if ba, ok := findBranch(available, *requested); ok {
			s.persistSelection(ctx, principal.UserID, ba.ID)
			return &ActiveBranchResolution{Active: ba, Available: available}, nil
		}
	}

	if persisted, found, err := s.selections.Get(ctx, principal.UserID); err != nil {
		s.logger.Warn("branch selection lookup failed",
			zap.String("user_id", principal.UserID.String()),
			zap.Error(err))
	} else if found {
		if ba, ok := findBranch(available, persisted); ok {
			s.persistSelection(ctx, principal.UserID, ba.ID)
			return &ActiveBranchResolution{Active: ba, Available: available}, nil
		}
	}

	ba := available[0]
	s.persistSelection(ctx, principal.UserID, ba.ID)
	return &ActiveBranchResolution{Active: ba, Available: available}, nil
}

func (s *BranchAccessService) persistSelection(ctx context.Context, userID uuid.UUID, branchID int64) {
	if err := s.selections.Set(ctx, userID, branchID); err != nil {
		s.logger.Warn("branch selection write-back failed",
			zap.String("user_id", userID.String()),
			zap.Int64("branch_id", branchID),
			zap.Error(err))
	}
}

func findBranch(available []BranchAccess, id int64) (BranchAccess, bool) {
	for _, ba := range available {
		if ba.ID == id {
			return ba, true
		}
	}
	return BranchAccess{}, false
}

func toBranchAccess(b *branch.Branch, level identity.PermissionLevel) BranchAccess {
	return BranchAccess{
		ID:       b.ID,
		Name:     b.Name,
		Location: b.Location,
		IsActive: b.IsActive,
		Level:    level,
	}
}
