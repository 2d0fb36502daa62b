package ledger

import (
	"context"

	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/ledger"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EndOfDayService drives the close-of-business protocol for a branch-day.
// The whole protocol is crash-ordered: the summary snapshot lands on the
// CLOSING row before tomorrow's opening balance exists, so no failure mode
// can lose the day's figures.
type EndOfDayService struct {
	reconciler   *ReconcilerService
	openingRepo  ledger.OpeningBalanceRepository
	dayCloseRepo ledger.DayCloseRepository
	logger       *zap.Logger
}

// NewEndOfDayService creates a new EndOfDayService
func NewEndOfDayService(
	reconciler *ReconcilerService,
	openingRepo ledger.OpeningBalanceRepository,
	dayCloseRepo ledger.DayCloseRepository,
	logger *zap.Logger,
) *EndOfDayService {
	return &EndOfDayService{
		reconciler:   reconciler,
		openingRepo:  openingRepo,
		dayCloseRepo: dayCloseRepo,
		logger:       logger,
	}
}

// PerformEndOfDay closes today's books for the branch:
//  1. the caller needs full access on the branch;
//  2. the day moves OPEN to CLOSING exclusively - a concurrent closer fails
//     fast with ALREADY_CLOSING, a finished day with DAY_ALREADY_CLOSED;
//  3. the summary is snapshotted onto the CLOSING row;
//  4. tomorrow opens with today's closing balance;
//  5. the day is marked CLOSED.
//
// Any failure after step 2 rolls the day back to OPEN and surfaces the
// error; the caller can retry once the cause is fixed.
func (s *EndOfDayService) PerformEndOfDay(ctx context.Context, principal identity.Principal, branchID int64) (*ledger.DailyLedgerSummary, error) {
	if !principal.CanAccess(branchID, identity.PermissionFullAccess) {
		return nil, shared.ErrPermissionDenied
	}

	today := ledger.Today()

	dc, err := s.dayCloseRepo.TryBeginClose(ctx, branchID, today)
	if err != nil {
		return nil, err
	}

	summary, err := s.closeBooks(ctx, principal, dc)
	if err != nil {
		s.rollback(ctx, dc)
		return nil, err
	}

	s.logger.Info("end of day completed",
		zap.Int64("branch_id", branchID),
		zap.String("date", today.String()),
		zap.String("closing_balance", summary.ClosingBalance.StringFixed()),
		zap.Int64("transaction_count", summary.TransactionCount),
		zap.String("closed_by", principal.UserID.String()))

	return summary, nil
}

func (s *EndOfDayService) closeBooks(ctx context.Context, principal identity.Principal, dc *ledger.DayClose) (*ledger.DailyLedgerSummary, error) {
	summary, err := s.reconciler.Summarize(ctx, principal, dc.BranchID, dc.Date)
	if err != nil {
		return nil, err
	}

	// Snapshot before any roll-forward. A crash from here on leaves the row
	// CLOSING with the figures already safe.
	dc.AttachSnapshot(*summary)
	if err := s.dayCloseRepo.Update(ctx, dc); err != nil {
		return nil, err
	}

	tomorrow, err := ledger.NewCarriedOpeningBalance(dc.BranchID, dc.Date.Next(), summary.ClosingBalance)
	if err != nil {
		return nil, err
	}
	if err := s.openingRepo.Upsert(ctx, tomorrow); err != nil {
		return nil, err
	}

	if err := dc.Complete(principal.UserID); err != nil {
		return nil, err
	}
	if err := s.dayCloseRepo.Update(ctx, dc); err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *EndOfDayService) rollback(ctx context.Context, dc *ledger.DayClose) {
	if err := dc.Reopen(); err != nil {
		s.logger.Error("day close rollback skipped",
			zap.Int64("branch_id", dc.BranchID),
			zap.String("date", dc.Date.String()),
			zap.Error(err))
		return
	}
	if err := s.dayCloseRepo.Update(ctx, dc); err != nil {
		s.logger.Error("day close rollback failed, day left closing",
			zap.Int64("branch_id", dc.BranchID),
			zap.String("date", dc.Date.String()),
			zap.Error(err))
	}
}
