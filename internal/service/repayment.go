package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/benx421/retail-ledger/internal/models"
)

// SettlementReport summarizes one repayment run. Interrupted is set when the
// run stopped early because its context ended; the counts cover the loans
// processed before that, and their settlements stay committed.
type SettlementReport struct {
	Scanned     int  `json:"scanned"`
	Closed      int  `json:"closed"`
	Pending     int  `json:"pending"`
	Failed      int  `json:"failed"`
	Interrupted bool `json:"interrupted"`
}

// RepaymentService collects outstanding loan balances from their accounts
type RepaymentService struct {
	ledger *LedgerService
}

// NewRepaymentService creates a new RepaymentService
func NewRepaymentService(ledger *LedgerService) *RepaymentService {
	return &RepaymentService{ledger: ledger}
}

type settlementOutcome int

const (
	outcomeSkipped settlementOutcome = iota
	outcomeClosed
	outcomePending
)

// SettleDueLoans attempts full repayment of every approved loan with a
// remaining balance. Each loan is settled in its own unit of work; a failure
// on one loan is logged and counted without stopping the run. A cancelled
// context ends the run with a partial, Interrupted report and no error.
func (s *RepaymentService) SettleDueLoans(ctx context.Context) (*SettlementReport, error) {
	loans, err := s.ledger.reader.Loans.List(ctx, models.LoanFilter{
		Status:          models.LoanStatusApproved,
		OutstandingOnly: true,
	})
	if err != nil {
		return nil, internalError("failed to list outstanding loans", err)
	}

	report := &SettlementReport{}
	for _, loan := range loans {
		if err := ctx.Err(); err != nil {
			report.Interrupted = true
			s.ledger.logger.Warn("loan settlement run interrupted",
				"scanned", report.Scanned,
				"remaining", len(loans)-report.Scanned,
				"error", err,
			)
			break
		}

		report.Scanned++

		outcome, err := s.settle(ctx, loan.ID)
		if err != nil {
			report.Failed++
			s.ledger.logger.Error("loan settlement failed",
				"loan_id", loan.ID,
				"account_id", loan.AccountID,
				"error", err,
			)
			continue
		}

		switch outcome {
		case outcomeClosed:
			report.Closed++
		case outcomePending:
			report.Pending++
		}
	}

	s.ledger.logger.Info("loan settlement run finished",
		"scanned", report.Scanned,
		"closed", report.Closed,
		"pending", report.Pending,
		"failed", report.Failed,
		"interrupted", report.Interrupted,
	)
	return report, nil
}

func (s *RepaymentService) settle(ctx context.Context, loanID uuid.UUID) (settlementOutcome, error) {
	outcome := outcomeSkipped
	err := s.ledger.run(ctx, func(ctx context.Context, u *unit) error {
		var err error
		outcome, err = s.performSettle(ctx, u, loanID)
		return err
	})
	return outcome, err
}

func (s *RepaymentService) performSettle(ctx context.Context, u *unit, loanID uuid.UUID) (settlementOutcome, error) {
	loan, err := u.store.Loans.FindByIDForUpdate(ctx, loanID)
	if errors.Is(err, models.ErrNotFound) {
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeSkipped, internalError("failed to lock loan", err)
	}

	// settled or closed by a concurrent run since the scan
	if loan.Status != models.LoanStatusApproved || !loan.BalanceRemaining.IsPositive() {
		return outcomeSkipped, nil
	}

	account, err := lockAccount(ctx, u, loan.AccountID)
	if err != nil {
		return outcomeSkipped, err
	}

	if account.Balance.LessThan(loan.BalanceRemaining) {
		if loan.PendingRepayment {
			return outcomePending, nil
		}
		loan.PendingRepayment = true
		if err := u.store.Loans.Save(ctx, loan); err != nil {
			return outcomeSkipped, internalError("failed to flag loan", err)
		}
		return outcomePending, nil
	}

	_, err = s.ledger.performDebit(ctx, u, account, loan.BalanceRemaining,
		models.TransactionTypeWithdrawal, "Loan Repayment: "+loan.Scheme)
	if err != nil {
		return outcomeSkipped, err
	}

	loan.BalanceRemaining = decimal.Zero
	loan.Status = models.LoanStatusClosed
	loan.PendingRepayment = false
	if err := u.store.Loans.Save(ctx, loan); err != nil {
		return outcomeSkipped, internalError("failed to close loan", err)
	}

	return outcomeClosed, nil
}
