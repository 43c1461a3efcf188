package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/retail-ledger/internal/db"
	"github.com/benx421/retail-ledger/internal/models"
)

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	Save(ctx context.Context, loan *models.Loan) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	List(ctx context.Context, filter models.LoanFilter) ([]*models.Loan, error)
}

type loanRepository struct {
	q db.Querier
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(q db.Querier) LoanRepository {
	return &loanRepository{q: q}
}

const loanColumns = `id, account_id, scheme, principal_amount, approved_amount, balance_remaining,
	interest_rate, status, applied_at, reviewed_at, due_date, pending_repayment`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	var loan models.Loan
	err := row.Scan(
		&loan.ID,
		&loan.AccountID,
		&loan.Scheme,
		&loan.PrincipalAmount,
		&loan.ApprovedAmount,
		&loan.BalanceRemaining,
		&loan.InterestRate,
		&loan.Status,
		&loan.AppliedAt,
		&loan.ReviewedAt,
		&loan.DueDate,
		&loan.PendingRepayment,
	)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Create inserts a loan application, assigning an ID and applied time when unset
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if loan.ID == uuid.Nil {
		loan.ID = uuid.New()
	}
	if loan.AppliedAt.IsZero() {
		loan.AppliedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		loan.ID,
		loan.AccountID,
		loan.Scheme,
		loan.PrincipalAmount,
		loan.ApprovedAmount,
		loan.BalanceRemaining,
		loan.InterestRate,
		loan.Status,
		loan.AppliedAt,
		loan.ReviewedAt,
		loan.DueDate,
		loan.PendingRepayment,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	return nil
}

// Save persists the mutable fields of a loan
func (r *loanRepository) Save(ctx context.Context, loan *models.Loan) error {
	query := `
		UPDATE loans
		SET approved_amount = $2,
		    balance_remaining = $3,
		    interest_rate = $4,
		    status = $5,
		    reviewed_at = $6,
		    due_date = $7,
		    pending_repayment = $8
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, query,
		loan.ID,
		loan.ApprovedAmount,
		loan.BalanceRemaining,
		loan.InterestRate,
		loan.Status,
		loan.ReviewedAt,
		loan.DueDate,
		loan.PendingRepayment,
	)
	if err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("loan %s: %w", loan.ID, models.ErrNotFound)
	}

	return nil
}

// FindByIDForUpdate retrieves a loan and locks its row for the surrounding transaction
func (r *loanRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	loan, err := scanLoan(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loan %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock loan: %w", err)
	}

	return loan, nil
}

// List returns loans matching filter ordered by application time, then ID
func (r *loanRepository) List(ctx context.Context, filter models.LoanFilter) ([]*models.Loan, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.OutstandingOnly {
		conditions = append(conditions, "balance_remaining > 0")
	}

	query := `SELECT ` + loanColumns + ` FROM loans`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY applied_at, id"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}

	return loans, nil
}
