package persistence

import (
	"context"
	"errors"

	"github.com/coffeecommand/backend/internal/domain/ledger"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"github.com/coffeecommand/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOpeningBalanceRepository implements ledger.OpeningBalanceRepository using GORM
type GormOpeningBalanceRepository struct {
	db *gorm.DB
}

// NewGormOpeningBalanceRepository creates a new GormOpeningBalanceRepository
func NewGormOpeningBalanceRepository(db *gorm.DB) *GormOpeningBalanceRepository {
	return &GormOpeningBalanceRepository{db: db}
}

// Find returns the branch-day's opening balance, nil when none was set
func (r *GormOpeningBalanceRepository) Find(ctx context.Context, branchID int64, date ledger.BusinessDate) (*ledger.OpeningBalance, error) {
	var model models.OpeningBalanceModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND date = ?", branchID, date.String()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert creates the branch-day row or replaces its amount
func (r *GormOpeningBalanceRepository) Upsert(ctx context.Context, balance *ledger.OpeningBalance) error {
	var model models.OpeningBalanceModel
	model.FromDomain(balance)

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "branch_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&model).Error
}

// GormDayCloseRepository implements ledger.DayCloseRepository using GORM
type GormDayCloseRepository struct {
	db *gorm.DB
}

// NewGormDayCloseRepository creates a new GormDayCloseRepository
func NewGormDayCloseRepository(db *gorm.DB) *GormDayCloseRepository {
	return &GormDayCloseRepository{db: db}
}

// Find returns the branch-day close record, nil when the day was never
// touched by a close
func (r *GormDayCloseRepository) Find(ctx context.Context, branchID int64, date ledger.BusinessDate) (*ledger.DayClose, error) {
	var model models.DayCloseModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND date = ?", branchID, date.String()).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// TryBeginClose atomically moves the branch-day from OPEN (or absent) to
// CLOSING. The OPEN row is inserted idempotently first, then a guarded
// UPDATE flips its status; RowsAffected tells winners from losers without
// any advisory lock.
func (r *GormDayCloseRepository) TryBeginClose(ctx context.Context, branchID int64, date ledger.BusinessDate) (*ledger.DayClose, error) {
	dc := ledger.NewDayClose(branchID, date)
	var model models.DayCloseModel
	model.FromDomain(dc)

	// Ensure the row exists; the unique (branch_id, date) index makes this
	// a no-op when another caller got there first.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "branch_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&model).Error; err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Model(&models.DayCloseModel{}).
		Where("branch_id = ? AND date = ? AND status = ?", branchID, date.String(), ledger.DayOpen).
		Update("status", ledger.DayClosing)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.Find(ctx, branchID, date)
		if err != nil {
			return nil, err
		}
		if current != nil && current.Status == ledger.DayClosing {
			return nil, shared.ErrAlreadyClosing
		}
		return nil, shared.ErrDayAlreadyClosed
	}

	return r.Find(ctx, branchID, date)
}

// Update persists snapshot and status changes on an existing record
func (r *GormDayCloseRepository) Update(ctx context.Context, dc *ledger.DayClose) error {
	var model models.DayCloseModel
	model.FromDomain(dc)
	result := r.db.WithContext(ctx).
		Model(&models.DayCloseModel{}).
		Where("id = ?", model.ID).
		Select("status", "opening_balance", "total_revenue", "total_expenses",
			"closing_balance", "transaction_count", "closed_by", "closed_at", "updated_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormSaleRepository implements ledger.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create persists a new sale record
func (r *GormSaleRepository) Create(ctx context.Context, sale *ledger.SaleRecord) error {
	var model models.SaleRecordModel
	model.FromDomain(sale)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByBranchDate returns the branch-day's sales, newest first
func (r *GormSaleRepository) FindByBranchDate(ctx context.Context, branchID int64, date ledger.BusinessDate) ([]*ledger.SaleRecord, error) {
	var saleModels []models.SaleRecordModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND date = ?", branchID, date.String()).
		Order("sold_at DESC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]*ledger.SaleRecord, len(saleModels))
	for i := range saleModels {
		sales[i] = saleModels[i].ToDomain()
	}
	return sales, nil
}

// SumRevenue returns the exact revenue total for the branch-day
func (r *GormSaleRepository) SumRevenue(ctx context.Context, branchID int64, date ledger.BusinessDate) (valueobject.Money, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.SaleRecordModel{}).
		Select("COALESCE(SUM(revenue), 0) as total").
		Where("branch_id = ? AND date = ?", branchID, date.String()).
		Scan(&result).Error; err != nil {
		return valueobject.Zero(), err
	}
	return valueobject.NewMoney(result.Total), nil
}

// CountByBranchDate returns the number of sale records for the branch-day
func (r *GormSaleRepository) CountByBranchDate(ctx context.Context, branchID int64, date ledger.BusinessDate) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SaleRecordModel{}).
		Where("branch_id = ? AND date = ?", branchID, date.String()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GormExpenseRepository implements ledger.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Create persists a new expense record
func (r *GormExpenseRepository) Create(ctx context.Context, expense *ledger.ExpenseRecord) error {
	var model models.ExpenseRecordModel
	model.FromDomain(expense)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update updates an existing expense record
func (r *GormExpenseRepository) Update(ctx context.Context, expense *ledger.ExpenseRecord) error {
	var model models.ExpenseRecordModel
	model.FromDomain(expense)
	result := r.db.WithContext(ctx).Save(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an expense record
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ExpenseRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an expense record by ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.ExpenseRecord, error) {
	var model models.ExpenseRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBranchDate returns the branch-day's expenses, newest first
func (r *GormExpenseRepository) FindByBranchDate(ctx context.Context, branchID int64, date ledger.BusinessDate) ([]*ledger.ExpenseRecord, error) {
	var expenseModels []models.ExpenseRecordModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND date = ?", branchID, date.String()).
		Order("spent_at DESC").
		Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	expenses := make([]*ledger.ExpenseRecord, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = expenseModels[i].ToDomain()
	}
	return expenses, nil
}

// SumExpenses returns the exact expense total for the branch-day
func (r *GormExpenseRepository) SumExpenses(ctx context.Context, branchID int64, date ledger.BusinessDate) (valueobject.Money, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.ExpenseRecordModel{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("branch_id = ? AND date = ?", branchID, date.String()).
		Scan(&result).Error; err != nil {
		return valueobject.Zero(), err
	}
	return valueobject.NewMoney(result.Total), nil
}
