package ledger

import (
	"errors"
	"testing"

	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayClose_Lifecycle(t *testing.T) {
	dc := NewDayClose(1, "2026-08-30")
	assert.Equal(t, DayOpen, dc.Status)

	require.NoError(t, dc.BeginClose())
	assert.Equal(t, DayClosing, dc.Status)

	s := NewDailyLedgerSummary(1, "2026-08-30",
		money(t, "500.00"), money(t, "250.00"), money(t, "100.00"), 10)
	dc.AttachSnapshot(s)

	closer := uuid.New()
	require.NoError(t, dc.Complete(closer))
	assert.Equal(t, DayClosed, dc.Status)
	assert.True(t, dc.IsClosed())
	require.NotNil(t, dc.ClosedBy)
	assert.Equal(t, closer, *dc.ClosedBy)
	assert.NotNil(t, dc.ClosedAt)

	got := dc.Summary()
	assert.Equal(t, "650.00", got.ClosingBalance.StringFixed())
	assert.Equal(t, int64(10), got.TransactionCount)
}

func TestDayClose_BeginCloseWhileClosing(t *testing.T) {
	dc := NewDayClose(1, "2026-08-30")
	require.NoError(t, dc.BeginClose())

	err := dc.BeginClose()
	assert.True(t, errors.Is(err, shared.ErrAlreadyClosing))
}

func TestDayClose_BeginCloseWhenClosed(t *testing.T) {
	dc := NewDayClose(1, "2026-08-30")
	require.NoError(t, dc.BeginClose())
	require.NoError(t, dc.Complete(uuid.New()))

	err := dc.BeginClose()
	assert.True(t, errors.Is(err, shared.ErrDayAlreadyClosed))
}

func TestDayClose_Reopen(t *testing.T) {
	dc := NewDayClose(1, "2026-08-30")
	require.NoError(t, dc.BeginClose())
	require.NoError(t, dc.Reopen())
	assert.Equal(t, DayOpen, dc.Status)

	// A fresh close attempt succeeds after rollback
	require.NoError(t, dc.BeginClose())
}

func TestDayClose_InvalidTransitions(t *testing.T) {
	dc := NewDayClose(1, "2026-08-30")

	assert.Error(t, dc.Complete(uuid.New()))
	assert.Error(t, dc.Reopen())

	require.NoError(t, dc.BeginClose())
	require.NoError(t, dc.Complete(uuid.New()))
	assert.Error(t, dc.Reopen())
}
