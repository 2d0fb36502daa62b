package ledger

import (
	"context"

	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/ledger"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionService records the sale and expense rows the reconciler
// aggregates over. Writes target today only and are rejected once the day is
// closed; reads accept any date.
type TransactionService struct {
	saleRepo     ledger.SaleRepository
	expenseRepo  ledger.ExpenseRepository
	dayCloseRepo ledger.DayCloseRepository
	logger       *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	saleRepo ledger.SaleRepository,
	expenseRepo ledger.ExpenseRepository,
	dayCloseRepo ledger.DayCloseRepository,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		saleRepo:     saleRepo,
		expenseRepo:  expenseRepo,
		dayCloseRepo: dayCloseRepo,
		logger:       logger,
	}
}

// RecordSaleRequest represents a request to record a sale
type RecordSaleRequest struct {
	ItemName string            `json:"item_name" binding:"required"`
	Quantity int               `json:"quantity" binding:"required"`
	Revenue  valueobject.Money `json:"revenue" binding:"required"`
}

// RecordExpenseRequest represents a request to record an expense
type RecordExpenseRequest struct {
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Amount      valueobject.Money `json:"amount" binding:"required"`
}

// RecordSale records a sale against the branch's current business day
func (s *TransactionService) RecordSale(ctx context.Context, principal identity.Principal, branchID int64, req RecordSaleRequest) (*ledger.SaleRecord, error) {
	if !principal.CanAccess(branchID, identity.PermissionFullAccess) {
		return nil, shared.ErrPermissionDenied
	}

	today := ledger.Today()
	if err := s.ensureDayOpen(ctx, branchID, today); err != nil {
		return nil, err
	}

	sale, err := ledger.NewSaleRecord(branchID, today, req.ItemName, req.Quantity, req.Revenue, principal.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.Int64("branch_id", branchID),
		zap.String("item", sale.ItemName),
		zap.String("revenue", sale.Revenue.StringFixed()))

	return sale, nil
}

// ListSales returns the branch-day's sales for any principal that can view
// the branch
func (s *TransactionService) ListSales(ctx context.Context, principal identity.Principal, branchID int64, date ledger.BusinessDate) ([]*ledger.SaleRecord, error) {
	if !principal.CanAccess(branchID, identity.PermissionViewOnly) {
		return nil, shared.ErrPermissionDenied
	}
	return s.saleRepo.FindByBranchDate(ctx, branchID, date)
}

// RecordExpense records an expense against the branch's current business day.
// A blank category lands in Other, which is what the quick-add flow uses.
func (s *TransactionService) RecordExpense(ctx context.Context, principal identity.Principal, branchID int64, req RecordExpenseRequest) (*ledger.ExpenseRecord, error) {
	if !principal.CanAccess(branchID, identity.PermissionFullAccess) {
		return nil, shared.ErrPermissionDenied
	}

	today := ledger.Today()
	if err := s.ensureDayOpen(ctx, branchID, today); err != nil {
		return nil, err
	}

	expense, err := ledger.NewExpenseRecord(branchID, today, req.Category, req.Description, req.Amount, principal.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("expense recorded",
		zap.Int64("branch_id", branchID),
		zap.String("category", expense.Category),
		zap.String("amount", expense.TotalAmount.StringFixed()))

	return expense, nil
}

// UpdateExpense amends an existing expense record
func (s *TransactionService) UpdateExpense(ctx context.Context, principal identity.Principal, expenseID uuid.UUID, req RecordExpenseRequest) (*ledger.ExpenseRecord, error) {
	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.ErrNotFound
	}
	if !principal.CanAccess(expense.BranchID, identity.PermissionFullAccess) {
		return nil, shared.ErrPermissionDenied
	}
	if err := s.ensureDayOpen(ctx, expense.BranchID, expense.Date); err != nil {
		return nil, err
	}

	if err := expense.Amend(req.Category, req.Description, req.Amount); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense record
func (s *TransactionService) DeleteExpense(ctx context.Context, principal identity.Principal, expenseID uuid.UUID) error {
	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense == nil {
		return shared.ErrNotFound
	}
	if !principal.CanAccess(expense.BranchID, identity.PermissionFullAccess) {
		return shared.ErrPermissionDenied
	}
	if err := s.ensureDayOpen(ctx, expense.BranchID, expense.Date); err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, expenseID)
}

// ListExpenses returns the branch-day's expenses for any principal that can
// view the branch
func (s *TransactionService) ListExpenses(ctx context.Context, principal identity.Principal, branchID int64, date ledger.BusinessDate) ([]*ledger.ExpenseRecord, error) {
	if !principal.CanAccess(branchID, identity.PermissionViewOnly) {
		return nil, shared.ErrPermissionDenied
	}
	return s.expenseRepo.FindByBranchDate(ctx, branchID, date)
}

func (s *TransactionService) ensureDayOpen(ctx context.Context, branchID int64, date ledger.BusinessDate) error {
	dc, err := s.dayCloseRepo.Find(ctx, branchID, date)
	if err != nil {
		return err
	}
	if dc == nil {
		return nil
	}
	switch dc.Status {
	case ledger.DayClosing:
		return shared.ErrAlreadyClosing
	case ledger.DayClosed:
		return shared.ErrDayAlreadyClosed
	default:
		return nil
	}
}
