package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/benx421/retail-ledger/internal/models"
)

// LoanApplication is a request for a loan under a named scheme.
// A zero Amount asks for the scheme ceiling.
type LoanApplication struct {
	Scheme    string
	Amount    decimal.Decimal
	AccountID uuid.UUID
}

// LoanPolicy is the underwriting configuration
type LoanPolicy struct {
	Schemes       map[string]models.LoanScheme
	Strategies    []LoanEvaluationStrategy
	HistoryWindow time.Duration
}

// DefaultLoanStrategies returns the history and high-balance strategies in evaluation order
func DefaultLoanStrategies(window time.Duration, minBalance, maxAmount decimal.Decimal) []LoanEvaluationStrategy {
	return []LoanEvaluationStrategy{
		HistoryEvaluation{Window: window},
		HighBalanceEvaluation{MinBalance: minBalance, MaxAmount: maxAmount},
	}
}

// LoanService underwrites loans and disburses approved principal
type LoanService struct {
	ledger *LedgerService
	policy LoanPolicy
	now    func() time.Time
}

// NewLoanService creates a new LoanService
func NewLoanService(ledger *LedgerService, policy LoanPolicy) *LoanService {
	return &LoanService{
		ledger: ledger,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Apply records the application, evaluates it and, when approved, credits the
// principal to the account. All of it happens in one unit of work.
// A rejected application is returned with a nil error.
func (s *LoanService) Apply(ctx context.Context, app LoanApplication) (*models.Loan, error) {
	scheme, ok := s.policy.Schemes[app.Scheme]
	if !ok {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidScheme,
			Message: "unknown loan scheme: " + app.Scheme,
		}
	}

	amount, err := requestedPrincipal(scheme, app.Amount)
	if err != nil {
		return nil, err
	}

	var loan *models.Loan
	err = s.ledger.run(ctx, func(ctx context.Context, u *unit) error {
		var err error
		loan, err = s.performApply(ctx, u, app.AccountID, scheme, amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.ledger.logger.Info("loan reviewed",
		"loan_id", loan.ID,
		"account_id", loan.AccountID,
		"scheme", loan.Scheme,
		"status", loan.Status,
	)
	return loan, nil
}

func requestedPrincipal(scheme models.LoanScheme, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsZero() {
		return scheme.MaxAmount, nil
	}

	if err := validateMoney(amount); err != nil {
		return decimal.Zero, err
	}
	if amount.GreaterThan(scheme.MaxAmount) {
		return decimal.Zero, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "requested amount exceeds the " + scheme.Name + " ceiling of " + scheme.MaxAmount.StringFixed(2),
		}
	}
	return amount, nil
}

func (s *LoanService) performApply(
	ctx context.Context,
	u *unit,
	accountID uuid.UUID,
	scheme models.LoanScheme,
	amount decimal.Decimal,
) (*models.Loan, error) {
	account, err := lockAccount(ctx, u, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	history, err := u.store.Transactions.ListByAccount(ctx, accountID, now.Add(-s.policy.HistoryWindow), time.Time{})
	if err != nil {
		return nil, internalError("failed to load transaction history", err)
	}

	loan := &models.Loan{
		ID:               uuid.New(),
		AccountID:        accountID,
		Scheme:           scheme.Name,
		PrincipalAmount:  amount,
		ApprovedAmount:   decimal.Zero,
		BalanceRemaining: decimal.Zero,
		InterestRate:     decimal.Zero,
		Status:           models.LoanStatusPending,
		AppliedAt:        now,
	}
	if err := u.store.Loans.Create(ctx, loan); err != nil {
		return nil, internalError("failed to create loan", err)
	}

	approvedBy := evaluate(s.policy.Strategies, EligibilityInput{
		Now:             now,
		Account:         account,
		History:         history,
		RequestedAmount: amount,
	})

	if approvedBy != "" {
		due := now.Add(scheme.ReturnPeriod())
		loan.Status = models.LoanStatusApproved
		loan.ApprovedAmount = amount
		loan.InterestRate = scheme.InterestRate
		loan.BalanceRemaining = amount.Mul(decimal.NewFromInt(1).Add(scheme.InterestRate)).RoundBank(2)
		loan.DueDate = &due

		if _, err := s.ledger.credit(ctx, u, account, amount, scheme.Name+" Loan Credit"); err != nil {
			return nil, err
		}
	} else {
		loan.Status = models.LoanStatusRejected
	}

	loan.ReviewedAt = &now
	if err := u.store.Loans.Save(ctx, loan); err != nil {
		return nil, internalError("failed to save loan", err)
	}

	s.ledger.logger.Debug("loan evaluated", "loan_id", loan.ID, "approved_by", approvedBy)
	return loan, nil
}

// ListLoans returns all loans of an account ordered by application time
func (s *LoanService) ListLoans(ctx context.Context, accountID uuid.UUID) ([]*models.Loan, error) {
	if _, err := s.ledger.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	loans, err := s.ledger.reader.Loans.List(ctx, models.LoanFilter{AccountID: &accountID})
	if err != nil {
		return nil, internalError("failed to list loans", err)
	}
	return loans, nil
}

