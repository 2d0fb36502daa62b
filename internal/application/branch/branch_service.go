package branch

import (
	"context"

	"github.com/coffeecommand/backend/internal/domain/branch"
	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BranchService provides branch administration. Mutations are admin-only;
// listings are open to any authenticated principal, with visibility trimmed
// by the access layer.
type BranchService struct {
	branchRepo branch.Repository
	logger     *zap.Logger
}

// NewBranchService creates a new BranchService
func NewBranchService(branchRepo branch.Repository, logger *zap.Logger) *BranchService {
	return &BranchService{branchRepo: branchRepo, logger: logger}
}

// CreateBranchRequest represents a request to create a branch
type CreateBranchRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// UpdateBranchRequest represents a request to update a branch
type UpdateBranchRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// CreateBranch creates a new active branch
func (s *BranchService) CreateBranch(ctx context.Context, admin identity.Principal, req CreateBranchRequest) (*branch.Branch, error) {
	if !admin.IsAdmin() {
		return nil, shared.ErrPermissionDenied
	}

	b, err := branch.NewBranch(req.Name, req.Location)
	if err != nil {
		return nil, err
	}
	if err := b.SetContact(req.Address, req.Phone, req.Email); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("branch created",
		zap.Int64("branch_id", b.ID),
		zap.String("name", b.Name),
		zap.String("created_by", admin.UserID.String()))

	return b, nil
}

// UpdateBranch updates a branch's details
func (s *BranchService) UpdateBranch(ctx context.Context, admin identity.Principal, branchID int64, req UpdateBranchRequest) (*branch.Branch, error) {
	if !admin.IsAdmin() {
		return nil, shared.ErrPermissionDenied
	}

	b, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.ErrNotFound
	}

	if err := b.Rename(req.Name); err != nil {
		return nil, err
	}
	b.SetLocation(req.Location)
	if err := b.SetContact(req.Address, req.Phone, req.Email); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeactivateBranch takes a branch out of service. Its ledger history and the
// grants pointing at it stay intact.
func (s *BranchService) DeactivateBranch(ctx context.Context, admin identity.Principal, branchID int64) error {
	if !admin.IsAdmin() {
		return shared.ErrPermissionDenied
	}

	b, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return err
	}
	if b == nil {
		return shared.ErrNotFound
	}

	if err := b.Deactivate(); err != nil {
		return err
	}
	if err := s.branchRepo.Update(ctx, b); err != nil {
		return err
	}

	s.logger.Info("branch deactivated",
		zap.Int64("branch_id", b.ID),
		zap.String("deactivated_by", admin.UserID.String()))

	return nil
}

// ActivateBranch puts a deactivated branch back in service
func (s *BranchService) ActivateBranch(ctx context.Context, admin identity.Principal, branchID int64) (*branch.Branch, error) {
	if !admin.IsAdmin() {
		return nil, shared.ErrPermissionDenied
	}

	b, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.ErrNotFound
	}

	if err := b.Activate(); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("branch activated",
		zap.Int64("branch_id", b.ID),
		zap.String("activated_by", admin.UserID.String()))

	return b, nil
}

// ListBranches returns branches in creation order. Only admins may include
// deactivated branches.
func (s *BranchService) ListBranches(ctx context.Context, principal identity.Principal, includeInactive bool) ([]*branch.Branch, error) {
	if includeInactive {
		if !principal.IsAdmin() {
			return nil, shared.ErrPermissionDenied
		}
		return s.branchRepo.FindAll(ctx)
	}
	return s.branchRepo.FindActive(ctx)
}

// GetBranch returns one branch for a principal that can at least view it
func (s *BranchService) GetBranch(ctx context.Context, principal identity.Principal, branchID int64) (*branch.Branch, error) {
	if !principal.CanAccess(branchID, identity.PermissionViewOnly) {
		return nil, shared.ErrPermissionDenied
	}

	b, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.ErrNotFound
	}
	return b, nil
}
