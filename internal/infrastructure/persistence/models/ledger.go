package models

import (
	"time"

	"github.com/coffeecommand/backend/internal/domain/ledger"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpeningBalanceModel is the persistence model for opening balances.
// One row per (branch_id, date).
type OpeningBalanceModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	BranchID  int64           `gorm:"not null;uniqueIndex:idx_opening_branch_date,priority:1"`
	Date      string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_opening_branch_date,priority:2"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OpeningBalanceModel) TableName() string {
	return "opening_balances"
}

// ToDomain converts the persistence model to a domain OpeningBalance.
func (m *OpeningBalanceModel) ToDomain() *ledger.OpeningBalance {
	return &ledger.OpeningBalance{
		ID:        m.ID,
		BranchID:  m.BranchID,
		Date:      ledger.BusinessDate(m.Date),
		Amount:    valueobject.NewMoney(m.Amount),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OpeningBalance.
func (m *OpeningBalanceModel) FromDomain(o *ledger.OpeningBalance) {
	m.ID = o.ID
	m.BranchID = o.BranchID
	m.Date = o.Date.String()
	m.Amount = o.Amount.Amount()
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
}

// DayCloseModel is the persistence model for day close records. The unique
// (branch_id, date) row plus the guarded status update is what makes the
// OPEN to CLOSING transition exclusive.
type DayCloseModel struct {
	ID               uuid.UUID             `gorm:"type:uuid;primary_key"`
	BranchID         int64                 `gorm:"not null;uniqueIndex:idx_dayclose_branch_date,priority:1"`
	Date             string                `gorm:"type:varchar(10);not null;uniqueIndex:idx_dayclose_branch_date,priority:2"`
	Status           ledger.DayCloseStatus `gorm:"type:varchar(10);not null;index"`
	OpeningBalance   decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	TotalRevenue     decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	TotalExpenses    decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	ClosingBalance   decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	TransactionCount int64                 `gorm:"not null"`
	ClosedBy         *uuid.UUID            `gorm:"type:uuid"`
	ClosedAt         *time.Time
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DayCloseModel) TableName() string {
	return "day_closes"
}

// ToDomain converts the persistence model to a domain DayClose.
func (m *DayCloseModel) ToDomain() *ledger.DayClose {
	return &ledger.DayClose{
		ID:               m.ID,
		BranchID:         m.BranchID,
		Date:             ledger.BusinessDate(m.Date),
		Status:           m.Status,
		OpeningBalance:   valueobject.NewMoney(m.OpeningBalance),
		TotalRevenue:     valueobject.NewMoney(m.TotalRevenue),
		TotalExpenses:    valueobject.NewMoney(m.TotalExpenses),
		ClosingBalance:   valueobject.NewMoney(m.ClosingBalance),
		TransactionCount: m.TransactionCount,
		ClosedBy:         m.ClosedBy,
		ClosedAt:         m.ClosedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain DayClose.
func (m *DayCloseModel) FromDomain(d *ledger.DayClose) {
	m.ID = d.ID
	m.BranchID = d.BranchID
	m.Date = d.Date.String()
	m.Status = d.Status
	m.OpeningBalance = d.OpeningBalance.Amount()
	m.TotalRevenue = d.TotalRevenue.Amount()
	m.TotalExpenses = d.TotalExpenses.Amount()
	m.ClosingBalance = d.ClosingBalance.Amount()
	m.TransactionCount = d.TransactionCount
	m.ClosedBy = d.ClosedBy
	m.ClosedAt = d.ClosedAt
	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt
}

// SaleRecordModel is the persistence model for sale records.
type SaleRecordModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	BranchID   int64           `gorm:"not null;index:idx_sale_branch_date,priority:1"`
	Date       string          `gorm:"type:varchar(10);not null;index:idx_sale_branch_date,priority:2"`
	ItemName   string          `gorm:"type:varchar(200);not null"`
	Quantity   int             `gorm:"not null"`
	Revenue    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	RecordedBy uuid.UUID       `gorm:"type:uuid;not null"`
	SoldAt     time.Time       `gorm:"not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleRecordModel) TableName() string {
	return "sale_records"
}

// ToDomain converts the persistence model to a domain SaleRecord.
func (m *SaleRecordModel) ToDomain() *ledger.SaleRecord {
	return &ledger.SaleRecord{
		ID:         m.ID,
		BranchID:   m.BranchID,
		Date:       ledger.BusinessDate(m.Date),
		ItemName:   m.ItemName,
		Quantity:   m.Quantity,
		Revenue:    valueobject.NewMoney(m.Revenue),
		RecordedBy: m.RecordedBy,
		SoldAt:     m.SoldAt,
		CreatedAt:  m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain SaleRecord.
func (m *SaleRecordModel) FromDomain(s *ledger.SaleRecord) {
	m.ID = s.ID
	m.BranchID = s.BranchID
	m.Date = s.Date.String()
	m.ItemName = s.ItemName
	m.Quantity = s.Quantity
	m.Revenue = s.Revenue.Amount()
	m.RecordedBy = s.RecordedBy
	m.SoldAt = s.SoldAt
	m.CreatedAt = s.CreatedAt
}

// ExpenseRecordModel is the persistence model for expense records.
type ExpenseRecordModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	BranchID    int64           `gorm:"not null;index:idx_expense_branch_date,priority:1"`
	Date        string          `gorm:"type:varchar(10);not null;index:idx_expense_branch_date,priority:2"`
	Category    string          `gorm:"type:varchar(100);not null"`
	Description string          `gorm:"type:varchar(500)"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	RecordedBy  uuid.UUID       `gorm:"type:uuid;not null"`
	SpentAt     time.Time       `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExpenseRecordModel) TableName() string {
	return "expense_records"
}

// ToDomain converts the persistence model to a domain ExpenseRecord.
func (m *ExpenseRecordModel) ToDomain() *ledger.ExpenseRecord {
	return &ledger.ExpenseRecord{
		ID:          m.ID,
		BranchID:    m.BranchID,
		Date:        ledger.BusinessDate(m.Date),
		Category:    m.Category,
		Description: m.Description,
		TotalAmount: valueobject.NewMoney(m.TotalAmount),
		RecordedBy:  m.RecordedBy,
		SpentAt:     m.SpentAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ExpenseRecord.
func (m *ExpenseRecordModel) FromDomain(e *ledger.ExpenseRecord) {
	m.ID = e.ID
	m.BranchID = e.BranchID
	m.Date = e.Date.String()
	m.Category = e.Category
	m.Description = e.Description
	m.TotalAmount = e.TotalAmount.Amount()
	m.RecordedBy = e.RecordedBy
	m.SpentAt = e.SpentAt
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}
