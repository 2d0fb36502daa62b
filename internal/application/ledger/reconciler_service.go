package ledger

import (
	"context"

	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/ledger"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ReconcilerService derives daily ledger summaries and maintains opening
// balances. Summaries are always recomputed from the underlying rows -
// nothing here is a stored running total that could drift.
type ReconcilerService struct {
	openingRepo  ledger.OpeningBalanceRepository
	dayCloseRepo ledger.DayCloseRepository
	saleRepo     ledger.SaleRepository
	expenseRepo  ledger.ExpenseRepository
	logger       *zap.Logger
}

// NewReconcilerService creates a new ReconcilerService
func NewReconcilerService(
	openingRepo ledger.OpeningBalanceRepository,
	dayCloseRepo ledger.DayCloseRepository,
	saleRepo ledger.SaleRepository,
	expenseRepo ledger.ExpenseRepository,
	logger *zap.Logger,
) *ReconcilerService {
	return &ReconcilerService{
		openingRepo:  openingRepo,
		dayCloseRepo: dayCloseRepo,
		saleRepo:     saleRepo,
		expenseRepo:  expenseRepo,
		logger:       logger,
	}
}

// Summarize derives the branch-day summary. A missing opening balance counts
// as zero; revenue and expense totals are exact decimal sums over the day's
// records; the transaction count is the number of sale records.
func (s *ReconcilerService) Summarize(ctx context.Context, principal identity.Principal, branchID int64, date ledger.BusinessDate) (*ledger.DailyLedgerSummary, error) {
	if !principal.CanAccess(branchID, identity.PermissionViewOnly) {
		return nil, shared.ErrPermissionDenied
	}

	opening := valueobject.Zero()
	if ob, err := s.openingRepo.Find(ctx, branchID, date); err != nil {
		return nil, err
	} else if ob != nil {
		opening = ob.Amount
	}

	revenue, err := s.saleRepo.SumRevenue(ctx, branchID, date)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.SumExpenses(ctx, branchID, date)
	if err != nil {
		return nil, err
	}

	count, err := s.saleRepo.CountByBranchDate(ctx, branchID, date)
	if err != nil {
		return nil, err
	}

	summary := ledger.NewDailyLedgerSummary(branchID, date, opening, revenue, expenses, count)
	return &summary, nil
}

// SetOpeningBalance sets or replaces the branch-day's opening balance.
// Checks run permission first, then amount validity, then day state - a
// caller without access learns nothing about the day's figures or state.
func (s *ReconcilerService) SetOpeningBalance(ctx context.Context, principal identity.Principal, branchID int64, date ledger.BusinessDate, amount valueobject.Money) (*ledger.OpeningBalance, error) {
	if !principal.CanAccess(branchID, identity.PermissionFullAccess) {
		return nil, shared.ErrPermissionDenied
	}

	if err := ledger.ValidateAmount(amount); err != nil {
		return nil, err
	}

	if closed, err := s.dayClosed(ctx, branchID, date); err != nil {
		return nil, err
	} else if closed {
		return nil, shared.ErrDayAlreadyClosed
	}

	existing, err := s.openingRepo.Find(ctx, branchID, date)
	if err != nil {
		return nil, err
	}

	var balance *ledger.OpeningBalance
	if existing != nil {
		if err := existing.SetAmount(amount); err != nil {
			return nil, err
		}
		balance = existing
	} else {
		balance, err = ledger.NewOpeningBalance(branchID, date, amount)
		if err != nil {
			return nil, err
		}
	}

	if err := s.openingRepo.Upsert(ctx, balance); err != nil {
		return nil, err
	}

	s.logger.Info("opening balance set",
		zap.Int64("branch_id", branchID),
		zap.String("date", date.String()),
		zap.String("amount", amount.StringFixed()),
		zap.String("set_by", principal.UserID.String()))

	return balance, nil
}

func (s *ReconcilerService) dayClosed(ctx context.Context, branchID int64, date ledger.BusinessDate) (bool, error) {
	dc, err := s.dayCloseRepo.Find(ctx, branchID, date)
	if err != nil {
		return false, err
	}
	return dc != nil && dc.IsClosed(), nil
}
