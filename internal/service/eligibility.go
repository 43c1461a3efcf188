package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/benx421/retail-ledger/internal/models"
)

// EligibilityInput is everything an evaluation strategy may look at.
// History holds the account's entries inside the longest configured window.
type EligibilityInput struct {
	Now             time.Time
	Account         *models.Account
	History         []*models.Transaction
	RequestedAmount decimal.Decimal
}

// LoanEvaluationStrategy decides whether an applicant qualifies.
// Implementations must be pure.
type LoanEvaluationStrategy interface {
	Name() string
	Evaluate(in EligibilityInput) bool
}

// HistoryEvaluation approves when recent credits plus the current balance
// cover at least half of the requested amount.
type HistoryEvaluation struct {
	Window time.Duration
}

func (HistoryEvaluation) Name() string { return "history" }

func (e HistoryEvaluation) Evaluate(in EligibilityInput) bool {
	since := in.Now.Add(-e.Window)

	total := in.Account.Balance
	for _, txn := range in.History {
		if txn.CreatedAt.Before(since) || !txn.IsCredit() {
			continue
		}
		total = total.Add(txn.Amount)
	}

	return total.GreaterThanOrEqual(in.RequestedAmount.Div(decimal.NewFromInt(2)))
}

// HighBalanceEvaluation is the fast path for well funded accounts asking for small loans
type HighBalanceEvaluation struct {
	MinBalance decimal.Decimal
	MaxAmount  decimal.Decimal
}

func (HighBalanceEvaluation) Name() string { return "high_balance" }

func (e HighBalanceEvaluation) Evaluate(in EligibilityInput) bool {
	return in.Account.Balance.GreaterThanOrEqual(e.MinBalance) &&
		in.RequestedAmount.LessThanOrEqual(e.MaxAmount)
}

// evaluate returns the name of the first strategy that approves, or "" if none does
func evaluate(strategies []LoanEvaluationStrategy, in EligibilityInput) string {
	for _, strategy := range strategies {
		if strategy.Evaluate(in) {
			return strategy.Name()
		}
	}
	return ""
}
