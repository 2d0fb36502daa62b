package ledger

import (
	"context"

	"github.com/coffeecommand/backend/internal/domain/ledger"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOpeningBalanceRepository is a mock implementation of ledger.OpeningBalanceRepository
type MockOpeningBalanceRepository struct {
	mock.Mock
}

func (m *MockOpeningBalanceRepository) Find(ctx context.Context, branchID int64, date ledger.BusinessDate) (*ledger.OpeningBalance, error) {
	args := m.Called(ctx, branchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.OpeningBalance), args.Error(1)
}

func (m *MockOpeningBalanceRepository) Upsert(ctx context.Context, balance *ledger.OpeningBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

// MockDayCloseRepository is a mock implementation of ledger.DayCloseRepository
type MockDayCloseRepository struct {
	mock.Mock
}

func (m *MockDayCloseRepository) Find(ctx context.Context, branchID int64, date ledger.BusinessDate) (*ledger.DayClose, error) {
	args := m.Called(ctx, branchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.DayClose), args.Error(1)
}

func (m *MockDayCloseRepository) TryBeginClose(ctx context.Context, branchID int64, date ledger.BusinessDate) (*ledger.DayClose, error) {
	args := m.Called(ctx, branchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.DayClose), args.Error(1)
}

func (m *MockDayCloseRepository) Update(ctx context.Context, dc *ledger.DayClose) error {
	args := m.Called(ctx, dc)
	return args.Error(0)
}

// MockSaleRepository is a mock implementation of ledger.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *ledger.SaleRecord) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByBranchDate(ctx context.Context, branchID int64, date ledger.BusinessDate) ([]*ledger.SaleRecord, error) {
	args := m.Called(ctx, branchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.SaleRecord), args.Error(1)
}

func (m *MockSaleRepository) SumRevenue(ctx context.Context, branchID int64, date ledger.BusinessDate) (valueobject.Money, error) {
	args := m.Called(ctx, branchID, date)
	return args.Get(0).(valueobject.Money), args.Error(1)
}

func (m *MockSaleRepository) CountByBranchDate(ctx context.Context, branchID int64, date ledger.BusinessDate) (int64, error) {
	args := m.Called(ctx, branchID, date)
	return args.Get(0).(int64), args.Error(1)
}

// MockExpenseRepository is a mock implementation of ledger.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *ledger.ExpenseRecord) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Update(ctx context.Context, expense *ledger.ExpenseRecord) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.ExpenseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ExpenseRecord), args.Error(1)
}

func (m *MockExpenseRepository) FindByBranchDate(ctx context.Context, branchID int64, date ledger.BusinessDate) ([]*ledger.ExpenseRecord, error) {
	args := m.Called(ctx, branchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.ExpenseRecord), args.Error(1)
}

func (m *MockExpenseRepository) SumExpenses(ctx context.Context, branchID int64, date ledger.BusinessDate) (valueobject.Money, error) {
	args := m.Called(ctx, branchID, date)
	return args.Get(0).(valueobject.Money), args.Error(1)
}
