package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/benx421/retail-ledger/internal/models"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Ledger handles money movement and ledger queries
type Ledger interface {
	Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*models.Account, error)
	Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*models.Account, error)
	Transfer(ctx context.Context, senderID uuid.UUID, receiverAccountNumber string, amount decimal.Decimal) (*TransferResult, error)
	GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*models.Transaction, error)
	GetTransaction(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error)
	Summary(ctx context.Context, accountID uuid.UUID, months int) (*AccountSummary, error)
}

// InterestApplier credits interest to accounts
type InterestApplier interface {
	ApplyInterest(ctx context.Context, accountID uuid.UUID) (*InterestResult, error)
}

// LoanUnderwriter handles loan applications
type LoanUnderwriter interface {
	Apply(ctx context.Context, app LoanApplication) (*models.Loan, error)
	ListLoans(ctx context.Context, accountID uuid.UUID) ([]*models.Loan, error)
}

// LoanSettler collects outstanding loan balances
type LoanSettler interface {
	SettleDueLoans(ctx context.Context) (*SettlementReport, error)
}

// RechargeProcessor handles mobile top-ups
type RechargeProcessor interface {
	ProcessRecharge(ctx context.Context, req RechargeRequest) (*models.MobileRecharge, error)
	ListRecharges(ctx context.Context, accountID uuid.UUID) ([]*models.MobileRecharge, error)
}

// Ensure concrete types implement interfaces
var (
	_ Ledger            = (*LedgerService)(nil)
	_ InterestApplier   = (*InterestService)(nil)
	_ LoanUnderwriter   = (*LoanService)(nil)
	_ LoanSettler       = (*RepaymentService)(nil)
	_ RechargeProcessor = (*RechargeService)(nil)
)
