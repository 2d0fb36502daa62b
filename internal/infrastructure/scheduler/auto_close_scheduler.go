package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	applicationledger "github.com/coffeecommand/backend/internal/application/ledger"
	"github.com/coffeecommand/backend/internal/domain/branch"
	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AutoCloseScheduler closes the books for every active branch once per day
// at the configured wall-clock time in the business timezone. Branches whose
// day was already closed by hand are skipped.
type AutoCloseScheduler struct {
	endOfDay   *applicationledger.EndOfDayService
	branchRepo branch.Repository
	logger     *zap.Logger
	config     AutoCloseSchedulerConfig

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// AutoCloseSchedulerConfig holds configuration for the automatic close scheduler
type AutoCloseSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// CloseTime is the daily run time as "HH:MM" wall clock
	CloseTime string

	// Location is the timezone the wall clock is read in
	Location *time.Location

	// JobTimeout is the maximum time for one full close sweep
	JobTimeout time.Duration
}

// DefaultAutoCloseSchedulerConfig returns default configuration
func DefaultAutoCloseSchedulerConfig(loc *time.Location) AutoCloseSchedulerConfig {
	return AutoCloseSchedulerConfig{
		Enabled:    true,
		CloseTime:  "23:55",
		Location:   loc,
		JobTimeout: 10 * time.Minute,
	}
}

// NewAutoCloseScheduler creates a new automatic close scheduler
func NewAutoCloseScheduler(
	endOfDay *applicationledger.EndOfDayService,
	branchRepo branch.Repository,
	logger *zap.Logger,
	config AutoCloseSchedulerConfig,
) *AutoCloseScheduler {
	return &AutoCloseScheduler{
		endOfDay:   endOfDay,
		branchRepo: branchRepo,
		logger:     logger,
		config:     config,
	}
}

// Start starts the scheduler loop
func (s *AutoCloseScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Automatic close scheduler is disabled")
		return nil
	}
	if _, _, err := parseCloseTime(s.config.CloseTime); err != nil {
		s.mu.Unlock()
		return err
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runDailyClose(ctx)

	s.logger.Info("Automatic close scheduler started",
		zap.String("close_time", s.config.CloseTime),
		zap.String("timezone", s.config.Location.String()),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *AutoCloseScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Automatic close scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Automatic close scheduler stop timed out")
		return ctx.Err()
	}
}

// runDailyClose sleeps until the next configured close time, sweeps, repeats
func (s *AutoCloseScheduler) runDailyClose(ctx context.Context) {
	defer s.wg.Done()

	hour, minute, _ := parseCloseTime(s.config.CloseTime)

	for {
		now := time.Now().In(s.config.Location)
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, s.config.Location)
		if !now.Before(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}
		delay := time.Until(nextRun)

		s.logger.Info("Automatic close scheduled",
			zap.Time("next_run", nextRun),
			zap.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			s.logger.Debug("Automatic close loop stopping")
			return
		case <-time.After(delay):
			s.executeCloseSweep(ctx)
		}
	}
}

// executeCloseSweep closes the books on every active branch
func (s *AutoCloseScheduler) executeCloseSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	system := systemPrincipal()

	branches, err := s.branchRepo.FindActive(sweepCtx)
	if err != nil {
		s.logger.Error("Automatic close sweep failed to list branches", zap.Error(err))
		return
	}

	closed, skipped, failed := 0, 0, 0
	for _, b := range branches {
		_, err := s.endOfDay.PerformEndOfDay(sweepCtx, system, b.ID)
		switch {
		case err == nil:
			closed++
		case errors.Is(err, shared.ErrDayAlreadyClosed), errors.Is(err, shared.ErrAlreadyClosing):
			skipped++
		default:
			failed++
			s.logger.Error("Automatic close failed for branch",
				zap.Int64("branch_id", b.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Automatic close sweep completed",
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("total_branches", len(branches)),
		zap.Int("closed", closed),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
}

// systemPrincipal is the identity the scheduler acts as. The nil UUID marks
// scheduler-driven closes in the audit fields.
func systemPrincipal() identity.Principal {
	return identity.NewPrincipal(uuid.Nil, "system", identity.RoleAdmin, nil)
}

func parseCloseTime(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid close time %q, expected HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid close time %q, expected HH:MM", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid close time %q, expected HH:MM", value)
	}
	return hour, minute, nil
}
