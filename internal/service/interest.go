package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/benx421/retail-ledger/internal/models"
)

// InterestStrategy computes the interest owed on a balance
type InterestStrategy interface {
	Compute(balance decimal.Decimal) decimal.Decimal
}

// SavingsInterest pays a flat Rate on the full balance
type SavingsInterest struct {
	Rate decimal.Decimal
}

func (s SavingsInterest) Compute(balance decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() {
		return decimal.Zero
	}
	return balance.Mul(s.Rate)
}

// CurrentInterest never pays interest
type CurrentInterest struct{}

func (CurrentInterest) Compute(decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// DefaultInterestStrategies maps each account type to its strategy
func DefaultInterestStrategies(savingsRate decimal.Decimal) map[models.AccountType]InterestStrategy {
	return map[models.AccountType]InterestStrategy{
		models.AccountTypeSavings: SavingsInterest{Rate: savingsRate},
		models.AccountTypeCurrent: CurrentInterest{},
	}
}

// InterestResult is the outcome of an interest run on one account.
// Transaction is nil when no interest was due.
type InterestResult struct {
	Account     *models.Account
	Transaction *models.Transaction
	Interest    decimal.Decimal
}

// InterestService credits interest through the ledger
type InterestService struct {
	ledger     *LedgerService
	strategies map[models.AccountType]InterestStrategy
}

// NewInterestService creates a new InterestService
func NewInterestService(ledger *LedgerService, strategies map[models.AccountType]InterestStrategy) *InterestService {
	return &InterestService{
		ledger:     ledger,
		strategies: strategies,
	}
}

// ApplyInterest computes interest on the current balance and credits it
func (s *InterestService) ApplyInterest(ctx context.Context, accountID uuid.UUID) (*InterestResult, error) {
	var result *InterestResult
	err := s.ledger.run(ctx, func(ctx context.Context, u *unit) error {
		account, err := lockAccount(ctx, u, accountID)
		if err != nil {
			return err
		}

		result = &InterestResult{Account: account, Interest: decimal.Zero}

		strategy, ok := s.strategies[account.AccountType]
		if !ok {
			return nil
		}

		interest := strategy.Compute(account.Balance).RoundBank(2)
		if !interest.IsPositive() {
			return nil
		}

		txn, err := s.ledger.credit(ctx, u, account, interest, interestDescription(strategy))
		if err != nil {
			return err
		}

		result.Interest = interest
		result.Transaction = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Transaction != nil {
		s.ledger.logger.Info("interest credited",
			"account_id", accountID,
			"interest", result.Interest.StringFixed(2),
		)
	}
	return result, nil
}

func interestDescription(strategy InterestStrategy) string {
	if savings, ok := strategy.(SavingsInterest); ok {
		return fmt.Sprintf("Interest Credit (%s%%)", savings.Rate.Shift(2).String())
	}
	return "Interest Credit"
}
