package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coffeecommand/backend/internal/domain/branch"
	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBranch(id int64, name string, active bool) *branch.Branch {
	return &branch.Branch{
		ID:        id,
		Name:      name,
		Location:  "Bengaluru",
		IsActive:  active,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func workerPrincipal(grants ...identity.BranchGrant) identity.Principal {
	return identity.NewPrincipal(uuid.New(), "barista", identity.RoleWorker, grants)
}

func grantFor(userID uuid.UUID, branchID int64, level identity.PermissionLevel) identity.BranchGrant {
	g, _ := identity.NewBranchGrant(userID, branchID, level)
	return *g
}

func TestBranchesFor_Admin(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	store := new(MockSelectionStore)
	svc := NewBranchAccessService(branchRepo, store, zap.NewNop())

	branchRepo.On("FindActive", mock.Anything).Return([]*branch.Branch{
		testBranch(1, "Indiranagar", true),
		testBranch(2, "Koramangala", true),
	}, nil)

	admin := identity.NewPrincipal(uuid.New(), "owner", identity.RoleAdmin, nil)
	result, err := svc.BranchesFor(context.Background(), admin)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, int64(1), result[0].ID)
	assert.Equal(t, int64(2), result[1].ID)
	for _, ba := range result {
		assert.Equal(t, identity.PermissionFullAccess, ba.Level)
	}
}

func TestBranchesFor_WorkerSeesOnlyGrantedBranches(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	store := new(MockSelectionStore)
	svc := NewBranchAccessService(branchRepo, store, zap.NewNop())

	userID := uuid.New()
	p := identity.NewPrincipal(userID, "barista", identity.RoleWorker, []identity.BranchGrant{
		grantFor(userID, 1, identity.PermissionViewOnly),
		grantFor(userID, 3, identity.PermissionFullAccess),
	})

	branchRepo.On("FindByIDs", mock.Anything, []int64{1, 3}).Return([]*branch.Branch{
		testBranch(1, "Indiranagar", true),
		testBranch(3, "HSR", true),
	}, nil)

	result, err := svc.BranchesFor(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, identity.PermissionViewOnly, result[0].Level)
	assert.Equal(t, identity.PermissionFullAccess, result[1].Level)
}

func TestBranchesFor_WorkerWithNoGrants(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	store := new(MockSelectionStore)
	svc := NewBranchAccessService(branchRepo, store, zap.NewNop())

	result, err := svc.BranchesFor(context.Background(), workerPrincipal())
	require.NoError(t, err)
	assert.Empty(t, result)
	branchRepo.AssertNotCalled(t, "FindByIDs")
}

func TestBranchesFor_InactiveGrantedBranchHidden(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	store := new(MockSelectionStore)
	svc := NewBranchAccessService(branchRepo, store, zap.NewNop())

	userID := uuid.New()
	p := identity.NewPrincipal(userID, "barista", identity.RoleWorker, []identity.BranchGrant{
		grantFor(userID, 1, identity.PermissionFullAccess),
		grantFor(userID, 2, identity.PermissionFullAccess),
	})

	branchRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return([]*branch.Branch{
		testBranch(1, "Indiranagar", false),
		testBranch(2, "Koramangala", true),
	}, nil)

	result, err := svc.BranchesFor(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, int64(2), result[0].ID)
}

func TestResolveActiveBranch_RequestedWins(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	store := new(MockSelectionStore)
	svc := NewBranchAccessService(branchRepo, store, zap.NewNop())

	userID := uuid.New()
	p := identity.NewPrincipal(userID, "barista", identity.RoleWorker, []identity.BranchGrant{
		grantFor(userID, 1, identity.PermissionFullAccess),
		grantFor(userID, 2, identity.PermissionFullAccess),
	})

	branchRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return([]*branch.Branch{
		testBranch(1, "Indiranagar", true),
		testBranch(2, "Koramangala", true),
	}, nil)
	store.On("Set", mock.Anything, userID, int64(2)).Return(nil)

	requested := int64(2)
	res, err := svc.ResolveActiveBranch(context.Background(), p, &requested)
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Active.ID)
	assert.Len(t, res.Available, 2)
	store.AssertNotCalled(t, "Get")
}

func TestResolveActiveBranch_UnreachableRequestedFallsToPersisted(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	store := new(MockSelectionStore)
	svc := NewBranchAccessService(branchRepo, store, zap.NewNop())

	userID := uuid.New()
	p := identity.NewPrincipal(userID, "barista", identity.RoleWorker, []identity.BranchGrant{
		grantFor(userID, 1, identity.PermissionFullAccess),
		grantFor(userID, 2, identity.PermissionFullAccess),
	})

	branchRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return([]*branch.Branch{
		testBranch(1, "Indiranagar", true),
		testBranch(2, "Koramangala", true),
	}, nil)
	store.On("Get", mock.Anything, userID).Return(int64(2), true, nil)
	store.On("Set", mock.Anything, userID, int64(2)).Return(nil)

	// Branch 9 is nobody's branch; the resolver must not error, just fall through
	requested := int64(9)
	res, err := svc.ResolveActiveBranch(context.Background(), p, &requested)
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Active.ID)
	store.AssertCalled(t, "Set", mock.Anything, userID, int64(2))
}

func TestResolveActiveBranch_StalePersistedFallsToFirst(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	store := new(MockSelectionStore)
	svc := NewBranchAccessService(branchRepo, store, zap.NewNop())

	userID := uuid.New()
	p := identity.NewPrincipal(userID, "barista", identity.RoleWorker, []identity.BranchGrant{
		grantFor(userID, 3, identity.PermissionViewOnly),
		grantFor(userID, 5, identity.PermissionViewOnly),
	})

	branchRepo.On("FindByIDs", mock.Anything, []int64{3, 5}).Return([]*branch.Branch{
		testBranch(3, "HSR", true),
		testBranch(5, "Whitefield", true),
	}, nil)
	// Persisted selection points at a branch the worker lost access to
	store.On("Get", mock.Anything, userID).Return(int64(1), true, nil)
	store.On("Set", mock.Anything, userID, int64(3)).Return(nil)

	res, err := svc.ResolveActiveBranch(context.Background(), p, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.Active.ID)
	store.AssertCalled(t, "Set", mock.Anything, userID, int64(3))
}

func TestResolveActiveBranch_NoBranchAvailable(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	store := new(MockSelectionStore)
	svc := NewBranchAccessService(branchRepo, store, zap.NewNop())

	_, err := svc.ResolveActiveBranch(context.Background(), workerPrincipal(), nil)
	assert.True(t, errors.Is(err, shared.ErrNoBranchAvailable))
	store.AssertNotCalled(t, "Set")
}

func TestResolveActiveBranch_StoreFailuresAreNonFatal(t *testing.T) {
	branchRepo := new(MockBranchRepository)
	store := new(MockSelectionStore)
	svc := NewBranchAccessService(branchRepo, store, zap.NewNop())

	userID := uuid.New()
	p := identity.NewPrincipal(userID, "barista", identity.RoleWorker, []identity.BranchGrant{
		grantFor(userID, 1, identity.PermissionFullAccess),
	})

	branchRepo.On("FindByIDs", mock.Anything, []int64{1}).Return([]*branch.Branch{
		testBranch(1, "Indiranagar", true),
	}, nil)
	store.On("Get", mock.Anything, userID).Return(int64(0), false, errors.New("redis down"))
	store.On("Set", mock.Anything, userID, int64(1)).Return(errors.New("redis down"))

	res, err := svc.ResolveActiveBranch(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Active.ID)
}
