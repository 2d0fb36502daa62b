package ledger

import (
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
)

// DailyLedgerSummary is the derived financial picture of one branch-day.
// It is always recomputed from the underlying rows; the only stored copies
// are the immutable snapshots taken at day close.
type DailyLedgerSummary struct {
	BranchID         int64              `json:"branch_id"`
	Date             BusinessDate       `json:"date"`
	OpeningBalance   valueobject.Money  `json:"opening_balance"`
	TotalRevenue     valueobject.Money  `json:"total_revenue"`
	TotalExpenses    valueobject.Money  `json:"total_expenses"`
	ClosingBalance   valueobject.Money  `json:"closing_balance"`
	TransactionCount int64              `json:"transaction_count"`
}

// NewDailyLedgerSummary derives a summary from its inputs. The closing
// balance is always opening + revenue - expenses, computed in exact decimals.
func NewDailyLedgerSummary(branchID int64, date BusinessDate, opening, revenue, expenses valueobject.Money, transactionCount int64) DailyLedgerSummary {
	return DailyLedgerSummary{
		BranchID:         branchID,
		Date:             date,
		OpeningBalance:   opening,
		TotalRevenue:     revenue,
		TotalExpenses:    expenses,
		ClosingBalance:   opening.Add(revenue).Subtract(expenses),
		TransactionCount: transactionCount,
	}
}
