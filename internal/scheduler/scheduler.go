// Package scheduler triggers periodic loan repayment runs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/benx421/retail-ledger/internal/service"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron     *cron.Cron
	settler  service.LoanSettler
	logger   *slog.Logger
	schedule string
	ctx      context.Context
}

// New creates a scheduler that runs settler on schedule, a standard five-field cron spec.
func New(settler service.LoanSettler, schedule string, logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))

	return &Scheduler{
		cron:     c,
		settler:  settler,
		logger:   logger,
		schedule: schedule,
		ctx:      context.Background(),
	}
}

// Start registers the repayment job and starts the cron scheduler. Runs
// use ctx, so cancelling it aborts an in-flight run between loans.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx = ctx

	if _, err := s.cron.AddFunc(s.schedule, s.RunRepayments); err != nil {
		return fmt.Errorf("failed to schedule loan repayment job %q: %w", s.schedule, err)
	}
	s.logger.Info("scheduled loan repayment job", "schedule", s.schedule)

	s.cron.Start()
	return nil
}

// RunRepayments performs one settlement run
func (s *Scheduler) RunRepayments() {
	report, err := s.settler.SettleDueLoans(s.ctx)
	if err != nil {
		s.logger.Error("loan repayment run failed", "error", err)
		return
	}

	s.logger.Info("loan repayment run completed",
		"scanned", report.Scanned,
		"closed", report.Closed,
		"pending", report.Pending,
		"failed", report.Failed,
		"interrupted", report.Interrupted,
	)
}

// Stop stops the scheduler. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
