package ledger

import (
	"time"

	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OpeningBalance is the cash amount a branch starts a business day with.
// One row per branch-day; missing means the day opened with zero.
type OpeningBalance struct {
	ID        uuid.UUID
	BranchID  int64
	Date      BusinessDate
	Amount    valueobject.Money
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOpeningBalance creates an opening balance after validating the amount
func NewOpeningBalance(branchID int64, date BusinessDate, amount valueobject.Money) (*OpeningBalance, error) {
	if branchID <= 0 {
		return nil, shared.NewDomainError("INVALID_BRANCH_ID", "Branch ID must be positive")
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	now := time.Now()
	return &OpeningBalance{
		ID:        uuid.New(),
		BranchID:  branchID,
		Date:      date,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewCarriedOpeningBalance creates the roll-forward opening balance written
// at day close. Unlike user-entered balances it may be negative - a day whose
// expenses outran its cash still has to open somewhere.
func NewCarriedOpeningBalance(branchID int64, date BusinessDate, amount valueobject.Money) (*OpeningBalance, error) {
	if branchID <= 0 {
		return nil, shared.NewDomainError("INVALID_BRANCH_ID", "Branch ID must be positive")
	}
	if !amount.HasCentPrecision() {
		return nil, shared.ErrInvalidAmount
	}

	now := time.Now()
	return &OpeningBalance{
		ID:        uuid.New(),
		BranchID:  branchID,
		Date:      date,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetAmount replaces the amount while the day is still open
func (o *OpeningBalance) SetAmount(amount valueobject.Money) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	o.Amount = amount
	o.UpdatedAt = time.Now()
	return nil
}

// ValidateAmount enforces the cash amount rules shared by opening balances,
// sales and expenses: non-negative with at most two decimal places. Non-finite
// values never get this far - Money construction rejects them.
func ValidateAmount(m valueobject.Money) error {
	if m.IsNegative() || !m.HasCentPrecision() {
		return shared.ErrInvalidAmount
	}
	return nil
}
