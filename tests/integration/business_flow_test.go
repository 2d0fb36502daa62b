package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeecommand/backend/internal/application/access"
	branchapp "github.com/coffeecommand/backend/internal/application/branch"
	ledgerapp "github.com/coffeecommand/backend/internal/application/ledger"
	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/ledger"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
)

func adminPrincipal() identity.Principal {
	return identity.NewPrincipal(uuid.New(), "boss", identity.RoleAdmin, nil)
}

func money(t *testing.T, s string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

// setupBranches creates two active branches and returns their IDs.
func setupBranches(t *testing.T, env *TestEnv, admin identity.Principal) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	downtown, err := env.Branches.CreateBranch(ctx, admin, branchapp.CreateBranchRequest{
		Name:     "Downtown",
		Location: "5th & Main",
	})
	require.NoError(t, err)

	airport, err := env.Branches.CreateBranch(ctx, admin, branchapp.CreateBranchRequest{
		Name:     "Airport",
		Location: "Terminal 2",
	})
	require.NoError(t, err)

	return downtown.ID, airport.ID
}

func TestWorkerDailyFlow(t *testing.T) {
	env := NewTestEnv(t)
	ctx := context.Background()
	admin := adminPrincipal()

	downtownID, airportID := setupBranches(t, env, admin)

	created, err := env.Grants.CreateWorker(ctx, admin, access.CreateWorkerRequest{
		Username: "asha",
		FullName: "Asha K",
	})
	require.NoError(t, err)

	_, err = env.Grants.AssignGrant(ctx, admin, access.AssignGrantRequest{
		UserID:   created.UserID,
		BranchID: downtownID,
		Level:    string(identity.PermissionFullAccess),
	})
	require.NoError(t, err)
	_, err = env.Grants.AssignGrant(ctx, admin, access.AssignGrantRequest{
		UserID:   created.UserID,
		BranchID: airportID,
		Level:    string(identity.PermissionViewOnly),
	})
	require.NoError(t, err)

	worker, err := env.Grants.PrincipalFor(ctx, created.UserID, "asha", identity.RoleWorker)
	require.NoError(t, err)

	// Both branches are visible, each at the granted level
	available, err := env.Access.BranchesFor(ctx, worker)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, identity.PermissionFullAccess, available[0].Level)
	assert.Equal(t, identity.PermissionViewOnly, available[1].Level)

	// No selection yet: the first available branch becomes active
	resolution, err := env.Access.ResolveActiveBranch(ctx, worker, nil)
	require.NoError(t, err)
	assert.Equal(t, downtownID, resolution.Active.ID)

	// An explicit pick sticks across sessions
	_, err = env.Access.ResolveActiveBranch(ctx, worker, &airportID)
	require.NoError(t, err)
	resolution, err = env.Access.ResolveActiveBranch(ctx, worker, nil)
	require.NoError(t, err)
	assert.Equal(t, airportID, resolution.Active.ID)

	today := ledger.Today()

	_, err = env.Reconciler.SetOpeningBalance(ctx, worker, downtownID, today, money(t, "500.00"))
	require.NoError(t, err)

	_, err = env.Transactions.RecordSale(ctx, worker, downtownID, ledgerapp.RecordSaleRequest{
		ItemName: "Flat White",
		Quantity: 2,
		Revenue:  money(t, "9.00"),
	})
	require.NoError(t, err)
	_, err = env.Transactions.RecordSale(ctx, worker, downtownID, ledgerapp.RecordSaleRequest{
		ItemName: "Cold Brew",
		Quantity: 1,
		Revenue:  money(t, "5.50"),
	})
	require.NoError(t, err)
	_, err = env.Transactions.RecordExpense(ctx, worker, downtownID, ledgerapp.RecordExpenseRequest{
		Category:    "supplies",
		Description: "oat milk",
		Amount:      money(t, "12.25"),
	})
	require.NoError(t, err)

	summary, err := env.Reconciler.Summarize(ctx, worker, downtownID, today)
	require.NoError(t, err)
	assert.Equal(t, "500.00", summary.OpeningBalance.StringFixed())
	assert.Equal(t, "14.50", summary.TotalRevenue.StringFixed())
	assert.Equal(t, "12.25", summary.TotalExpenses.StringFixed())
	assert.Equal(t, "502.25", summary.ClosingBalance.StringFixed())
	assert.Equal(t, int64(2), summary.TransactionCount)

	// View-only on the airport branch: reads work, writes don't
	_, err = env.Transactions.ListSales(ctx, worker, airportID, today)
	require.NoError(t, err)
	_, err = env.Transactions.RecordSale(ctx, worker, airportID, ledgerapp.RecordSaleRequest{
		ItemName: "Espresso",
		Quantity: 1,
		Revenue:  money(t, "3.00"),
	})
	assert.ErrorIs(t, err, shared.ErrPermissionDenied)
}

func TestEndOfDayCloseAndCarry(t *testing.T) {
	env := NewTestEnv(t)
	ctx := context.Background()
	admin := adminPrincipal()

	downtownID, _ := setupBranches(t, env, admin)
	today := ledger.Today()

	_, err := env.Reconciler.SetOpeningBalance(ctx, admin, downtownID, today, money(t, "200.00"))
	require.NoError(t, err)
	_, err = env.Transactions.RecordSale(ctx, admin, downtownID, ledgerapp.RecordSaleRequest{
		ItemName: "Mocha",
		Quantity: 3,
		Revenue:  money(t, "15.00"),
	})
	require.NoError(t, err)

	summary, err := env.EndOfDay.PerformEndOfDay(ctx, admin, downtownID)
	require.NoError(t, err)
	assert.Equal(t, "215.00", summary.ClosingBalance.StringFixed())

	// A closed day rejects both a second close and new transactions
	_, err = env.EndOfDay.PerformEndOfDay(ctx, admin, downtownID)
	assert.ErrorIs(t, err, shared.ErrDayAlreadyClosed)
	_, err = env.Transactions.RecordSale(ctx, admin, downtownID, ledgerapp.RecordSaleRequest{
		ItemName: "Latte",
		Quantity: 1,
		Revenue:  money(t, "4.50"),
	})
	assert.ErrorIs(t, err, shared.ErrDayAlreadyClosed)

	// Tomorrow opens with today's closing balance
	tomorrow, err := env.Reconciler.Summarize(ctx, admin, downtownID, today.Next())
	require.NoError(t, err)
	assert.Equal(t, "215.00", tomorrow.OpeningBalance.StringFixed())
}

func TestGrantAllThenLimit(t *testing.T) {
	env := NewTestEnv(t)
	ctx := context.Background()
	admin := adminPrincipal()

	downtownID, airportID := setupBranches(t, env, admin)

	created, err := env.Grants.CreateWorker(ctx, admin, access.CreateWorkerRequest{Username: "ravi"})
	require.NoError(t, err)

	granted, err := env.Grants.GrantAllBranches(ctx, admin, created.UserID)
	require.NoError(t, err)
	require.Len(t, granted, 2)
	for _, g := range granted {
		assert.Equal(t, identity.PermissionFullAccess, g.Level)
	}

	limited, err := env.Grants.LimitToSingleBranch(ctx, admin, created.UserID, airportID)
	require.NoError(t, err)
	assert.Equal(t, airportID, limited.BranchID)

	worker, err := env.Grants.PrincipalFor(ctx, created.UserID, "ravi", identity.RoleWorker)
	require.NoError(t, err)
	assert.False(t, worker.CanAccess(downtownID, identity.PermissionViewOnly))
	assert.True(t, worker.CanAccess(airportID, identity.PermissionFullAccess))

	available, err := env.Access.BranchesFor(ctx, worker)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, airportID, available[0].ID)
}

func TestDeactivatedBranchLeavesLedgerReadable(t *testing.T) {
	env := NewTestEnv(t)
	ctx := context.Background()
	admin := adminPrincipal()

	downtownID, _ := setupBranches(t, env, admin)
	today := ledger.Today()

	_, err := env.Transactions.RecordSale(ctx, admin, downtownID, ledgerapp.RecordSaleRequest{
		ItemName: "Cortado",
		Quantity: 1,
		Revenue:  money(t, "4.00"),
	})
	require.NoError(t, err)

	require.NoError(t, env.Branches.DeactivateBranch(ctx, admin, downtownID))
	err = env.Branches.DeactivateBranch(ctx, admin, downtownID)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "ALREADY_DEACTIVATED", derr.Code)

	// History stays queryable after deactivation
	sales, err := env.Transactions.ListSales(ctx, admin, downtownID, today)
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	branches, err := env.Branches.ListBranches(ctx, admin, false)
	require.NoError(t, err)
	assert.Len(t, branches, 1)
	branches, err = env.Branches.ListBranches(ctx, admin, true)
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	// Reactivation brings the branch back without touching its ledger
	reactivated, err := env.Branches.ActivateBranch(ctx, admin, downtownID)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)

	branches, err = env.Branches.ListBranches(ctx, admin, false)
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	sales, err = env.Transactions.ListSales(ctx, admin, downtownID, today)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}
