// Package integration wires the real repositories and services against an
// in-process sqlite database. Each test gets a fresh schema.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coffeecommand/backend/internal/application/access"
	branchapp "github.com/coffeecommand/backend/internal/application/branch"
	ledgerapp "github.com/coffeecommand/backend/internal/application/ledger"
	"github.com/coffeecommand/backend/internal/infrastructure/cache"
	"github.com/coffeecommand/backend/internal/infrastructure/event"
	"github.com/coffeecommand/backend/internal/infrastructure/persistence"
	"github.com/coffeecommand/backend/internal/infrastructure/persistence/models"
)

// NewTestDB opens a private in-memory sqlite database with the full schema
// applied. The single-connection pool keeps the in-memory database alive and
// serializes access, which is what sqlite wants anyway.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "failed to open sqlite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.BranchModel{},
		&models.UserModel{},
		&models.BranchGrantModel{},
		&models.OpeningBalanceModel{},
		&models.DayCloseModel{},
		&models.SaleRecordModel{},
		&models.ExpenseRecordModel{},
	)
	require.NoError(t, err, "failed to migrate schema")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// TestEnv bundles the full service stack over one test database.
type TestEnv struct {
	DB *gorm.DB

	Access       *access.BranchAccessService
	Grants       *access.GrantService
	Branches     *branchapp.BranchService
	Reconciler   *ledgerapp.ReconcilerService
	EndOfDay     *ledgerapp.EndOfDayService
	Transactions *ledgerapp.TransactionService
}

// NewTestEnv builds the application services the way main does, swapping the
// external pieces (postgres, redis) for in-process equivalents.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	db := NewTestDB(t)
	log := zap.NewNop()

	userRepo := persistence.NewGormUserRepository(db)
	grantRepo := persistence.NewGormGrantRepository(db)
	branchRepo := persistence.NewGormBranchRepository(db)
	openingRepo := persistence.NewGormOpeningBalanceRepository(db)
	dayCloseRepo := persistence.NewGormDayCloseRepository(db)
	saleRepo := persistence.NewGormSaleRepository(db)
	expenseRepo := persistence.NewGormExpenseRepository(db)

	reconciler := ledgerapp.NewReconcilerService(openingRepo, dayCloseRepo, saleRepo, expenseRepo, log)

	return &TestEnv{
		DB:           db,
		Access:       access.NewBranchAccessService(branchRepo, cache.NewInMemorySelectionStore(), log),
		Grants:       access.NewGrantService(userRepo, grantRepo, branchRepo, event.NewInMemoryEventBus(log), log),
		Branches:     branchapp.NewBranchService(branchRepo, log),
		Reconciler:   reconciler,
		EndOfDay:     ledgerapp.NewEndOfDayService(reconciler, openingRepo, dayCloseRepo, log),
		Transactions: ledgerapp.NewTransactionService(saleRepo, expenseRepo, dayCloseRepo, log),
	}
}
