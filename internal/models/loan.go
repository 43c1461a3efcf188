package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
//
//	Pending -> Approved | Rejected
//	Approved -> Closed
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "Pending"
	LoanStatusApproved LoanStatus = "Approved"
	LoanStatusRejected LoanStatus = "Rejected"
	LoanStatusClosed   LoanStatus = "Closed"
)

// IsTerminal reports whether no further transition is possible
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusRejected || s == LoanStatusClosed
}

// LoanScheme is a loan product template
type LoanScheme struct {
	Name         string
	MaxAmount    decimal.Decimal
	InterestRate decimal.Decimal
	ReturnDays   int
}

// ReturnPeriod returns the repayment period as a duration
func (s LoanScheme) ReturnPeriod() time.Duration {
	return time.Duration(s.ReturnDays) * 24 * time.Hour
}

// Loan is a loan application and, once approved, its contract.
// BalanceRemaining never increases after approval and is zero once Closed.
type Loan struct {
	AppliedAt        time.Time       `db:"applied_at"`
	ReviewedAt       *time.Time      `db:"reviewed_at"`
	DueDate          *time.Time      `db:"due_date"`
	Scheme           string          `db:"scheme"`
	Status           LoanStatus      `db:"status"`
	PrincipalAmount  decimal.Decimal `db:"principal_amount"`
	ApprovedAmount   decimal.Decimal `db:"approved_amount"`
	BalanceRemaining decimal.Decimal `db:"balance_remaining"`
	InterestRate     decimal.Decimal `db:"interest_rate"`
	ID               uuid.UUID       `db:"id"`
	AccountID        uuid.UUID       `db:"account_id"`
	PendingRepayment bool            `db:"pending_repayment"`
}

// LoanFilter selects loans. Zero-valued fields do not filter.
type LoanFilter struct {
	AccountID       *uuid.UUID
	Status          LoanStatus
	OutstandingOnly bool
}
