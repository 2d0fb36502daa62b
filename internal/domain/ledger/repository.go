package ledger

import (
	"context"

	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OpeningBalanceRepository defines the interface for opening balance persistence
type OpeningBalanceRepository interface {
	// Find returns the branch-day's opening balance, nil when none was set
	Find(ctx context.Context, branchID int64, date BusinessDate) (*OpeningBalance, error)

	// Upsert creates the branch-day row or replaces its amount
	Upsert(ctx context.Context, balance *OpeningBalance) error
}

// DayCloseRepository defines the interface for day close persistence.
// TryBeginClose carries the exclusivity guarantee the close protocol rests on.
type DayCloseRepository interface {
	// Find returns the branch-day close record, nil when the day was never
	// touched by a close
	Find(ctx context.Context, branchID int64, date BusinessDate) (*DayClose, error)

	// TryBeginClose atomically moves the branch-day from OPEN (or absent) to
	// CLOSING and returns the record. Exactly one concurrent caller wins;
	// losers get ErrAlreadyClosing or ErrDayAlreadyClosed.
	TryBeginClose(ctx context.Context, branchID int64, date BusinessDate) (*DayClose, error)

	// Update persists snapshot and status changes on an existing record
	Update(ctx context.Context, dc *DayClose) error
}

// SaleRepository defines the interface for sale record persistence
type SaleRepository interface {
	// Create persists a new sale record
	Create(ctx context.Context, sale *SaleRecord) error

	// FindByBranchDate returns the branch-day's sales, newest first
	FindByBranchDate(ctx context.Context, branchID int64, date BusinessDate) ([]*SaleRecord, error)

	// SumRevenue returns the exact revenue total for the branch-day,
	// zero when there are no sales
	SumRevenue(ctx context.Context, branchID int64, date BusinessDate) (valueobject.Money, error)

	// CountByBranchDate returns the number of sale records for the branch-day
	CountByBranchDate(ctx context.Context, branchID int64, date BusinessDate) (int64, error)
}

// ExpenseRepository defines the interface for expense record persistence
type ExpenseRepository interface {
	// Create persists a new expense record
	Create(ctx context.Context, expense *ExpenseRecord) error

	// Update updates an existing expense record
	Update(ctx context.Context, expense *ExpenseRecord) error

	// Delete removes an expense record
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an expense record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ExpenseRecord, error)

	// FindByBranchDate returns the branch-day's expenses, newest first
	FindByBranchDate(ctx context.Context, branchID int64, date BusinessDate) ([]*ExpenseRecord, error)

	// SumExpenses returns the exact expense total for the branch-day,
	// zero when there are no expenses
	SumExpenses(ctx context.Context, branchID int64, date BusinessDate) (valueobject.Money, error)
}
