package ledger

import (
	"strings"
	"time"

	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Expense categories match the seeded set every branch starts with
const (
	CategoryIngredients = "Ingredients"
	CategoryUtilities   = "Utilities"
	CategorySalaries    = "Salaries"
	CategoryMaintenance = "Maintenance"
	CategoryOther       = "Other"
)

// DefaultExpenseCategories returns the seeded category names in display order
func DefaultExpenseCategories() []string {
	return []string{
		CategoryIngredients,
		CategoryUtilities,
		CategorySalaries,
		CategoryMaintenance,
		CategoryOther,
	}
}

// SaleRecord is one sale entry. Each record counts as one transaction in the
// daily summary regardless of quantity.
type SaleRecord struct {
	ID         uuid.UUID
	BranchID   int64
	Date       BusinessDate
	ItemName   string
	Quantity   int
	Revenue    valueobject.Money
	RecordedBy uuid.UUID
	SoldAt     time.Time
	CreatedAt  time.Time
}

// NewSaleRecord creates a sale entry after validating its figures
func NewSaleRecord(branchID int64, date BusinessDate, itemName string, quantity int, revenue valueobject.Money, recordedBy uuid.UUID) (*SaleRecord, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if err := ValidateAmount(revenue); err != nil {
		return nil, err
	}

	now := time.Now()
	return &SaleRecord{
		ID:         uuid.New(),
		BranchID:   branchID,
		Date:       date,
		ItemName:   itemName,
		Quantity:   quantity,
		Revenue:    revenue,
		RecordedBy: recordedBy,
		SoldAt:     now,
		CreatedAt:  now,
	}, nil
}

// ExpenseRecord is one expense entry against a branch-day
type ExpenseRecord struct {
	ID          uuid.UUID
	BranchID    int64
	Date        BusinessDate
	Category    string
	Description string
	TotalAmount valueobject.Money
	RecordedBy  uuid.UUID
	SpentAt     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewExpenseRecord creates an expense entry after validating its figures
func NewExpenseRecord(branchID int64, date BusinessDate, category, description string, amount valueobject.Money, recordedBy uuid.UUID) (*ExpenseRecord, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = CategoryOther
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	now := time.Now()
	return &ExpenseRecord{
		ID:          uuid.New(),
		BranchID:    branchID,
		Date:        date,
		Category:    category,
		Description: strings.TrimSpace(description),
		TotalAmount: amount,
		RecordedBy:  recordedBy,
		SpentAt:     now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Amend updates the expense's category, description and amount
func (e *ExpenseRecord) Amend(category, description string, amount valueobject.Money) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	category = strings.TrimSpace(category)
	if category != "" {
		e.Category = category
	}
	e.Description = strings.TrimSpace(description)
	e.TotalAmount = amount
	e.UpdatedAt = time.Now()
	return nil
}
