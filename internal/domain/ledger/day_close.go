package ledger

import (
	"time"

	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DayCloseStatus is the lifecycle state of a branch-day
type DayCloseStatus string

const (
	DayOpen    DayCloseStatus = "OPEN"    // Trading; figures mutable
	DayClosing DayCloseStatus = "CLOSING" // End-of-day in flight; snapshot persisted
	DayClosed  DayCloseStatus = "CLOSED"  // Final; figures immutable
)

// DayClose tracks the close lifecycle of one branch-day. There is at most one
// row per (branch, date); the OPEN to CLOSING transition is exclusive, so two
// concurrent end-of-day runs can never both proceed. A row stuck in CLOSING
// means a close crashed mid-way - the snapshot is already safe and the close
// can be retried or reported.
type DayClose struct {
	ID       uuid.UUID
	BranchID int64
	Date     BusinessDate
	Status   DayCloseStatus

	// Snapshot of the summary at close time, persisted before any
	// roll-forward so figures survive a crash.
	OpeningBalance   valueobject.Money
	TotalRevenue     valueobject.Money
	TotalExpenses    valueobject.Money
	ClosingBalance   valueobject.Money
	TransactionCount int64

	ClosedBy  *uuid.UUID
	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDayClose creates an OPEN day record for a branch-date
func NewDayClose(branchID int64, date BusinessDate) *DayClose {
	now := time.Now()
	return &DayClose{
		ID:        uuid.New(),
		BranchID:  branchID,
		Date:      date,
		Status:    DayOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BeginClose transitions OPEN to CLOSING. Any other current state rejects
// the transition so only one closer ever proceeds.
func (d *DayClose) BeginClose() error {
	switch d.Status {
	case DayOpen:
		d.Status = DayClosing
		d.UpdatedAt = time.Now()
		return nil
	case DayClosing:
		return shared.ErrAlreadyClosing
	default:
		return shared.ErrDayAlreadyClosed
	}
}

// AttachSnapshot stores the close-time summary on the record
func (d *DayClose) AttachSnapshot(s DailyLedgerSummary) {
	d.OpeningBalance = s.OpeningBalance
	d.TotalRevenue = s.TotalRevenue
	d.TotalExpenses = s.TotalExpenses
	d.ClosingBalance = s.ClosingBalance
	d.TransactionCount = s.TransactionCount
	d.UpdatedAt = time.Now()
}

// Complete transitions CLOSING to CLOSED and records who closed the day
func (d *DayClose) Complete(closedBy uuid.UUID) error {
	if d.Status != DayClosing {
		return shared.NewDomainError("INVALID_DAY_STATE", "Day must be closing to complete")
	}
	now := time.Now()
	d.Status = DayClosed
	d.ClosedBy = &closedBy
	d.ClosedAt = &now
	d.UpdatedAt = now
	return nil
}

// Reopen rolls a failed close back from CLOSING to OPEN
func (d *DayClose) Reopen() error {
	if d.Status != DayClosing {
		return shared.NewDomainError("INVALID_DAY_STATE", "Only a closing day can be reopened")
	}
	d.Status = DayOpen
	d.UpdatedAt = time.Now()
	return nil
}

// IsClosed returns true once the day is final
func (d *DayClose) IsClosed() bool {
	return d.Status == DayClosed
}

// Summary reconstructs the snapshot stored on the record
func (d *DayClose) Summary() DailyLedgerSummary {
	return DailyLedgerSummary{
		BranchID:         d.BranchID,
		Date:             d.Date,
		OpeningBalance:   d.OpeningBalance,
		TotalRevenue:     d.TotalRevenue,
		TotalExpenses:    d.TotalExpenses,
		ClosingBalance:   d.ClosingBalance,
		TransactionCount: d.TransactionCount,
	}
}
