package access

import (
	"context"
	"time"

	"github.com/coffeecommand/backend/internal/domain/branch"
	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GrantService administers branch grants. Every operation is admin-only;
// grant mutations for a worker are applied atomically so no caller ever
// observes a partial grant set.
type GrantService struct {
	userRepo   identity.UserRepository
	grantRepo  identity.GrantRepository
	branchRepo branch.Repository
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewGrantService creates a new GrantService
func NewGrantService(
	userRepo identity.UserRepository,
	grantRepo identity.GrantRepository,
	branchRepo branch.Repository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *GrantService {
	return &GrantService{
		userRepo:   userRepo,
		grantRepo:  grantRepo,
		branchRepo: branchRepo,
		events:     events,
		logger:     logger,
	}
}

// GrantResponse represents a branch grant in API responses
type GrantResponse struct {
	UserID    uuid.UUID                `json:"user_id"`
	BranchID  int64                    `json:"branch_id"`
	Level     identity.PermissionLevel `json:"level"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// UserPermissions is one user's full grant picture for the admin overview
type UserPermissions struct {
	UserID   uuid.UUID       `json:"user_id"`
	Username string          `json:"username"`
	FullName string          `json:"full_name"`
	Role     identity.Role   `json:"role"`
	Active   bool            `json:"active"`
	Grants   []GrantResponse `json:"grants"`
}

// CreateWorkerRequest represents a request to create a worker account
type CreateWorkerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// UpdateWorkerRequest represents a request to update a worker's profile.
// Active is optional; when absent the account state is left alone.
type UpdateWorkerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Active   *bool  `json:"active"`
}

// AssignGrantRequest represents a request to grant a worker access to a branch
type AssignGrantRequest struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	BranchID int64     `json:"branch_id" binding:"required"`
	Level    string    `json:"level" binding:"required"`
}

// AssignGrant grants or updates a worker's access to a branch
func (s *GrantService) AssignGrant(ctx context.Context, admin identity.Principal, req AssignGrantRequest) (*GrantResponse, error) {
	if !admin.IsAdmin() {
		return nil, shared.ErrPermissionDenied
	}

	level, err := identity.ParsePermissionLevel(req.Level)
	if err != nil {
		return nil, err
	}

	worker, err := s.grantableWorker(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	b, err := s.branchRepo.FindByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.ErrNotFound
	}

	// Re-granting the same level is a no-op: no write, no event
	existing, err := s.grantRepo.FindByUserAndBranch(ctx, worker.ID, b.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Level == level {
		return &GrantResponse{
			UserID:    existing.UserID,
			BranchID:  existing.BranchID,
			Level:     existing.Level,
			UpdatedAt: existing.UpdatedAt,
		}, nil
	}

	grant, err := identity.NewBranchGrant(worker.ID, b.ID, level)
	if err != nil {
		return nil, err
	}
	if err := s.grantRepo.Upsert(ctx, grant); err != nil {
		return nil, err
	}
	s.publish(ctx, identity.NewGrantAssignedEvent(worker.ID, b.ID, level))

	s.logger.Info("branch grant assigned",
		zap.String("user_id", worker.ID.String()),
		zap.Int64("branch_id", b.ID),
		zap.String("level", string(level)),
		zap.String("assigned_by", admin.UserID.String()))

	return &GrantResponse{
		UserID:    grant.UserID,
		BranchID:  grant.BranchID,
		Level:     grant.Level,
		UpdatedAt: grant.UpdatedAt,
	}, nil
}

// RevokeGrant removes a worker's access to a branch
func (s *GrantService) RevokeGrant(ctx context.Context, admin identity.Principal, userID uuid.UUID, branchID int64) error {
	if !admin.IsAdmin() {
		return shared.ErrPermissionDenied
	}

	worker, err := s.grantableWorker(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.grantRepo.Delete(ctx, worker.ID, branchID); err != nil {
		return err
	}
	s.publish(ctx, identity.NewGrantRevokedEvent(worker.ID, branchID))

	s.logger.Info("branch grant revoked",
		zap.String("user_id", worker.ID.String()),
		zap.Int64("branch_id", branchID),
		zap.String("revoked_by", admin.UserID.String()))

	return nil
}

// GrantAllBranches gives a worker full access to every active branch,
// replacing whatever grants it held before
func (s *GrantService) GrantAllBranches(ctx context.Context, admin identity.Principal, userID uuid.UUID) ([]GrantResponse, error) {
	if !admin.IsAdmin() {
		return nil, shared.ErrPermissionDenied
	}

	worker, err := s.grantableWorker(ctx, userID)
	if err != nil {
		return nil, err
	}

	grants, err := s.fullAccessOnAllActive(ctx, worker.ID)
	if err != nil {
		return nil, err
	}
	if err := s.grantRepo.ReplaceAll(ctx, worker.ID, grants); err != nil {
		return nil, err
	}
	s.publishGrantAssignments(ctx, grants)

	s.logger.Info("worker granted all branches",
		zap.String("user_id", worker.ID.String()),
		zap.Int("branch_count", len(grants)),
		zap.String("granted_by", admin.UserID.String()))

	return toGrantResponses(grants), nil
}

// LimitToSingleBranch restricts a worker to full access on exactly one
// branch. The removal of other grants and the upsert of the target grant
// land in one atomic replace, so the worker never holds a partial set.
func (s *GrantService) LimitToSingleBranch(ctx context.Context, admin identity.Principal, userID uuid.UUID, branchID int64) (*GrantResponse, error) {
	if !admin.IsAdmin() {
		return nil, shared.ErrPermissionDenied
	}

	worker, err := s.grantableWorker(ctx, userID)
	if err != nil {
		return nil, err
	}

	b, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.ErrNotFound
	}

	grant, err := identity.NewBranchGrant(worker.ID, b.ID, identity.PermissionFullAccess)
	if err != nil {
		return nil, err
	}
	if err := s.grantRepo.ReplaceAll(ctx, worker.ID, []identity.BranchGrant{*grant}); err != nil {
		return nil, err
	}
	s.publish(ctx, identity.NewGrantAssignedEvent(worker.ID, b.ID, identity.PermissionFullAccess))

	s.logger.Info("worker limited to single branch",
		zap.String("user_id", worker.ID.String()),
		zap.Int64("branch_id", b.ID),
		zap.String("limited_by", admin.UserID.String()))

	return &GrantResponse{
		UserID:    grant.UserID,
		BranchID:  grant.BranchID,
		Level:     grant.Level,
		UpdatedAt: grant.UpdatedAt,
	}, nil
}

// CreateWorker creates a worker account and grants it full access to every
// active branch, so a new hire is productive without a second admin step
func (s *GrantService) CreateWorker(ctx context.Context, admin identity.Principal, req CreateWorkerRequest) (*UserPermissions, error) {
	if !admin.IsAdmin() {
		return nil, shared.ErrPermissionDenied
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	worker, err := identity.NewWorker(req.Username, req.Email, req.FullName)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, worker); err != nil {
		return nil, err
	}

	grants, err := s.fullAccessOnAllActive(ctx, worker.ID)
	if err != nil {
		return nil, err
	}
	if err := s.grantRepo.ReplaceAll(ctx, worker.ID, grants); err != nil {
		return nil, err
	}
	s.publishAggregateEvents(ctx, worker)
	s.publishGrantAssignments(ctx, grants)

	s.logger.Info("worker created",
		zap.String("user_id", worker.ID.String()),
		zap.String("username", worker.Username),
		zap.Int("branch_count", len(grants)),
		zap.String("created_by", admin.UserID.String()))

	return &UserPermissions{
		UserID:   worker.ID,
		Username: worker.Username,
		FullName: worker.FullName,
		Role:     worker.Role,
		Active:   worker.Active,
		Grants:   toGrantResponses(grants),
	}, nil
}

// UpdateWorker updates a worker's profile and, when requested, toggles the
// account state. Deactivation keeps the grants in place so a reactivated
// account picks up where it left off.
func (s *GrantService) UpdateWorker(ctx context.Context, admin identity.Principal, userID uuid.UUID, req UpdateWorkerRequest) (*UserPermissions, error) {
	if !admin.IsAdmin() {
		return nil, shared.ErrPermissionDenied
	}

	worker, err := s.grantableWorker(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := worker.SetFullName(req.FullName); err != nil {
		return nil, err
	}
	if err := worker.SetEmail(req.Email); err != nil {
		return nil, err
	}
	if req.Active != nil && *req.Active != worker.Active {
		if *req.Active {
			err = worker.Activate()
		} else {
			err = worker.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, worker); err != nil {
		return nil, err
	}
	s.publishAggregateEvents(ctx, worker)

	grants, err := s.grantRepo.FindByUser(ctx, worker.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("worker updated",
		zap.String("user_id", worker.ID.String()),
		zap.Bool("active", worker.Active),
		zap.String("updated_by", admin.UserID.String()))

	return &UserPermissions{
		UserID:   worker.ID,
		Username: worker.Username,
		FullName: worker.FullName,
		Role:     worker.Role,
		Active:   worker.Active,
		Grants:   toGrantResponses(grants),
	}, nil
}

// ListUserPermissions returns a page of users with their grants for the admin
// permission overview. Admins appear with no grants - their access is
// implicit.
func (s *GrantService) ListUserPermissions(ctx context.Context, admin identity.Principal, filter identity.UserFilter) (*shared.Paginated[UserPermissions], error) {
	if !admin.IsAdmin() {
		return nil, shared.ErrPermissionDenied
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	grouped, err := s.grantRepo.FindAllGrouped(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]UserPermissions, 0, len(users))
	for _, u := range users {
		result = append(result, UserPermissions{
			UserID:   u.ID,
			Username: u.Username,
			FullName: u.FullName,
			Role:     u.Role,
			Active:   u.Active,
			Grants:   toGrantResponses(grouped[u.ID]),
		})
	}
	page := shared.NewPaginated(result, total, filter.Page, filter.PageSize)
	return &page, nil
}

// PrincipalFor assembles the access context for an authenticated user: the
// verified claims plus one grant fetch. Admin principals skip the fetch.
func (s *GrantService) PrincipalFor(ctx context.Context, userID uuid.UUID, username string, role identity.Role) (identity.Principal, error) {
	if role.IsAdmin() {
		return identity.NewPrincipal(userID, username, role, nil), nil
	}
	grants, err := s.grantRepo.FindByUser(ctx, userID)
	if err != nil {
		return identity.Principal{}, err
	}
	return identity.NewPrincipal(userID, username, role, grants), nil
}

func (s *GrantService) grantableWorker(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotFound
	}
	if !user.IsWorker() {
		return nil, shared.NewDomainError("INVALID_GRANT_TARGET", "Grants apply to workers; admin access is implicit")
	}
	return user, nil
}

func (s *GrantService) fullAccessOnAllActive(ctx context.Context, userID uuid.UUID) ([]identity.BranchGrant, error) {
	branches, err := s.branchRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	grants := make([]identity.BranchGrant, 0, len(branches))
	for _, b := range branches {
		g, err := identity.NewBranchGrant(userID, b.ID, identity.PermissionFullAccess)
		if err != nil {
			return nil, err
		}
		grants = append(grants, *g)
	}
	return grants, nil
}

// publish hands events to the bus. Delivery is best-effort: a bus failure
// is logged and never rolls back the write that produced the event.
func (s *GrantService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

func (s *GrantService) publishAggregateEvents(ctx context.Context, user *identity.User) {
	s.publish(ctx, user.GetDomainEvents()...)
	user.ClearDomainEvents()
}

func (s *GrantService) publishGrantAssignments(ctx context.Context, grants []identity.BranchGrant) {
	events := make([]shared.DomainEvent, 0, len(grants))
	for _, g := range grants {
		events = append(events, identity.NewGrantAssignedEvent(g.UserID, g.BranchID, g.Level))
	}
	s.publish(ctx, events...)
}

func toGrantResponses(grants []identity.BranchGrant) []GrantResponse {
	result := make([]GrantResponse, 0, len(grants))
	for _, g := range grants {
		result = append(result, GrantResponse{
			UserID:    g.UserID,
			BranchID:  g.BranchID,
			Level:     g.Level,
			UpdatedAt: g.UpdatedAt,
		})
	}
	return result
}
