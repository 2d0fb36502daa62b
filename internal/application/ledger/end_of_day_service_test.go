package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/coffeecommand/backend/internal/domain/ledger"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEndOfDay() (*EndOfDayService, *MockOpeningBalanceRepository, *MockDayCloseRepository, *MockSaleRepository, *MockExpenseRepository) {
	openingRepo := new(MockOpeningBalanceRepository)
	dayCloseRepo := new(MockDayCloseRepository)
	saleRepo := new(MockSaleRepository)
	expenseRepo := new(MockExpenseRepository)
	reconciler := NewReconcilerService(openingRepo, dayCloseRepo, saleRepo, expenseRepo, zap.NewNop())
	svc := NewEndOfDayService(reconciler, openingRepo, dayCloseRepo, zap.NewNop())
	return svc, openingRepo, dayCloseRepo, saleRepo, expenseRepo
}

func stubSummaryInputs(openingRepo *MockOpeningBalanceRepository, saleRepo *MockSaleRepository, expenseRepo *MockExpenseRepository, t *testing.T, opening, revenue, expenses string, count int64) {
	ob, err := ledger.NewOpeningBalance(1, ledger.Today(), money(t, opening))
	require.NoError(t, err)
	openingRepo.On("Find", mock.Anything, int64(1), ledger.Today()).Return(ob, nil)
	saleRepo.On("SumRevenue", mock.Anything, int64(1), ledger.Today()).Return(money(t, revenue), nil)
	expenseRepo.On("SumExpenses", mock.Anything, int64(1), ledger.Today()).Return(money(t, expenses), nil)
	saleRepo.On("CountByBranchDate", mock.Anything, int64(1), ledger.Today()).Return(count, nil)
}

func TestPerformEndOfDay(t *testing.T) {
	svc, openingRepo, dayCloseRepo, saleRepo, expenseRepo := newEndOfDay()
	today := ledger.Today()
	closer := fullAccessPrincipal(1)

	dc := ledger.NewDayClose(1, today)
	require.NoError(t, dc.BeginClose())
	dayCloseRepo.On("TryBeginClose", mock.Anything, int64(1), today).Return(dc, nil)

	stubSummaryInputs(openingRepo, saleRepo, expenseRepo, t, "1000.00", "2500.50", "300.25", 42)

	// Snapshot lands on the CLOSING row first
	dayCloseRepo.On("Update", mock.Anything, mock.MatchedBy(func(d *ledger.DayClose) bool {
		return d.Status == ledger.DayClosing && d.ClosingBalance.StringFixed() == "3200.25"
	})).Return(nil).Once()

	// Tomorrow opens with today's closing balance
	openingRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(ob *ledger.OpeningBalance) bool {
		return ob.BranchID == 1 &&
			ob.Date == today.Next() &&
			ob.Amount.StringFixed() == "3200.25"
	})).Return(nil).Once()

	// Then the day is finalized
	dayCloseRepo.On("Update", mock.Anything, mock.MatchedBy(func(d *ledger.DayClose) bool {
		return d.Status == ledger.DayClosed && d.ClosedBy != nil && *d.ClosedBy == closer.UserID
	})).Return(nil).Once()

	summary, err := svc.PerformEndOfDay(context.Background(), closer, 1)
	require.NoError(t, err)

	assert.Equal(t, "3200.25", summary.ClosingBalance.StringFixed())
	assert.Equal(t, int64(42), summary.TransactionCount)
	dayCloseRepo.AssertExpectations(t)
	openingRepo.AssertExpectations(t)
}

func TestPerformEndOfDay_PermissionDenied(t *testing.T) {
	svc, _, dayCloseRepo, _, _ := newEndOfDay()

	_, err := svc.PerformEndOfDay(context.Background(), viewOnlyPrincipal(1), 1)
	assert.True(t, errors.Is(err, shared.ErrPermissionDenied))
	dayCloseRepo.AssertNotCalled(t, "TryBeginClose")
}

func TestPerformEndOfDay_ConcurrentCloserLoses(t *testing.T) {
	svc, openingRepo, dayCloseRepo, _, _ := newEndOfDay()
	today := ledger.Today()

	dayCloseRepo.On("TryBeginClose", mock.Anything, int64(1), today).Return(nil, shared.ErrAlreadyClosing)

	_, err := svc.PerformEndOfDay(context.Background(), fullAccessPrincipal(1), 1)
	assert.True(t, errors.Is(err, shared.ErrAlreadyClosing))

	// The loser performs no writes at all
	openingRepo.AssertNotCalled(t, "Upsert")
	dayCloseRepo.AssertNotCalled(t, "Update")
}

func TestPerformEndOfDay_AlreadyClosed(t *testing.T) {
	svc, _, dayCloseRepo, _, _ := newEndOfDay()
	today := ledger.Today()

	dayCloseRepo.On("TryBeginClose", mock.Anything, int64(1), today).Return(nil, shared.ErrDayAlreadyClosed)

	_, err := svc.PerformEndOfDay(context.Background(), fullAccessPrincipal(1), 1)
	assert.True(t, errors.Is(err, shared.ErrDayAlreadyClosed))
}

func TestPerformEndOfDay_RollsBackOnFailure(t *testing.T) {
	svc, openingRepo, dayCloseRepo, saleRepo, expenseRepo := newEndOfDay()
	today := ledger.Today()

	dc := ledger.NewDayClose(1, today)
	require.NoError(t, dc.BeginClose())
	dayCloseRepo.On("TryBeginClose", mock.Anything, int64(1), today).Return(dc, nil)

	stubSummaryInputs(openingRepo, saleRepo, expenseRepo, t, "1000.00", "500.00", "100.00", 5)

	// Snapshot write succeeds, roll-forward fails
	dayCloseRepo.On("Update", mock.Anything, mock.MatchedBy(func(d *ledger.DayClose) bool {
		return d.Status == ledger.DayClosing
	})).Return(nil).Once()
	openingRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(ob *ledger.OpeningBalance) bool {
		return ob.Date == today.Next()
	})).Return(errors.New("db gone")).Once()

	// The day must come back to OPEN so a retry can win the transition again
	dayCloseRepo.On("Update", mock.Anything, mock.MatchedBy(func(d *ledger.DayClose) bool {
		return d.Status == ledger.DayOpen
	})).Return(nil).Once()

	_, err := svc.PerformEndOfDay(context.Background(), fullAccessPrincipal(1), 1)
	require.Error(t, err)
	assert.Equal(t, ledger.DayOpen, dc.Status)
	dayCloseRepo.AssertExpectations(t)
}

func TestPerformEndOfDay_NegativeClosingStillRollsForward(t *testing.T) {
	svc, openingRepo, dayCloseRepo, saleRepo, expenseRepo := newEndOfDay()
	today := ledger.Today()
	closer := fullAccessPrincipal(1)

	dc := ledger.NewDayClose(1, today)
	require.NoError(t, dc.BeginClose())
	dayCloseRepo.On("TryBeginClose", mock.Anything, int64(1), today).Return(dc, nil)

	stubSummaryInputs(openingRepo, saleRepo, expenseRepo, t, "50.00", "10.00", "100.00", 1)

	dayCloseRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	openingRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(ob *ledger.OpeningBalance) bool {
		return ob.Amount.StringFixed() == "-40.00"
	})).Return(nil).Once()

	summary, err := svc.PerformEndOfDay(context.Background(), closer, 1)
	require.NoError(t, err)
	assert.Equal(t, "-40.00", summary.ClosingBalance.StringFixed())
	assert.True(t, summary.ClosingBalance.Amount().Equal(valueobject.Zero().Amount().Sub(money(t, "40.00").Amount())))
}
