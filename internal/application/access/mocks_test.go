package access

import (
	"context"
	"sync"

	"github.com/coffeecommand/backend/internal/domain/branch"
	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBranchRepository is a mock implementation of branch.Repository
type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBranchRepository) Update(ctx context.Context, b *branch.Branch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBranchRepository) FindByID(ctx context.Context, id int64) (*branch.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindActive(ctx context.Context) ([]*branch.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindAll(ctx context.Context) ([]*branch.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindByIDs(ctx context.Context, ids []int64) ([]*branch.Branch, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*branch.Branch), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockGrantRepository is a mock implementation of identity.GrantRepository
type MockGrantRepository struct {
	mock.Mock
}

func (m *MockGrantRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.BranchGrant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.BranchGrant), args.Error(1)
}

func (m *MockGrantRepository) FindByUserAndBranch(ctx context.Context, userID uuid.UUID, branchID int64) (*identity.BranchGrant, error) {
	args := m.Called(ctx, userID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.BranchGrant), args.Error(1)
}

func (m *MockGrantRepository) Upsert(ctx context.Context, grant *identity.BranchGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockGrantRepository) Delete(ctx context.Context, userID uuid.UUID, branchID int64) error {
	args := m.Called(ctx, userID, branchID)
	return args.Error(0)
}

func (m *MockGrantRepository) ReplaceAll(ctx context.Context, userID uuid.UUID, grants []identity.BranchGrant) error {
	args := m.Called(ctx, userID, grants)
	return args.Error(0)
}

func (m *MockGrantRepository) FindAllGrouped(ctx context.Context) (map[uuid.UUID][]identity.BranchGrant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]identity.BranchGrant), args.Error(1)
}

// capturingPublisher records published events so tests can assert on them
// without wiring the real bus
type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) published(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []shared.DomainEvent
	for _, ev := range p.events {
		if ev.EventType() == eventType {
			result = append(result, ev)
		}
	}
	return result
}

// MockSelectionStore is a mock implementation of SelectionStore
type MockSelectionStore struct {
	mock.Mock
}

func (m *MockSelectionStore) Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockSelectionStore) Set(ctx context.Context, userID uuid.UUID, branchID int64) error {
	args := m.Called(ctx, userID, branchID)
	return args.Error(0)
}
