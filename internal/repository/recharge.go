package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/retail-ledger/internal/db"
	"github.com/benx421/retail-ledger/internal/models"
)

// RechargeRepository defines the interface for mobile recharge records
type RechargeRepository interface {
	Create(ctx context.Context, recharge *models.MobileRecharge) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.MobileRecharge, error)
}

type rechargeRepository struct {
	q db.Querier
}

// NewRechargeRepository creates a new RechargeRepository
func NewRechargeRepository(q db.Querier) RechargeRepository {
	return &rechargeRepository{q: q}
}

// Create inserts a recharge record
func (r *rechargeRepository) Create(ctx context.Context, recharge *models.MobileRecharge) error {
	if recharge.ID == uuid.Nil {
		recharge.ID = uuid.New()
	}
	if recharge.CreatedAt.IsZero() {
		recharge.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO mobile_recharges
			(id, account_id, transaction_id, phone_number, country_code, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		recharge.ID,
		recharge.AccountID,
		recharge.TransactionID,
		recharge.PhoneNumber,
		recharge.CountryCode,
		recharge.Amount,
		recharge.Status,
		recharge.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recharge: %w", err)
	}

	return nil
}

// ListByAccount returns the recharges of an account, newest first
func (r *rechargeRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.MobileRecharge, error) {
	query := `
		SELECT id, account_id, transaction_id, phone_number, country_code, amount, status, created_at
		FROM mobile_recharges
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recharges: %w", err)
	}
	defer rows.Close()

	var recharges []*models.MobileRecharge
	for rows.Next() {
		var rc models.MobileRecharge
		if err := rows.Scan(
			&rc.ID,
			&rc.AccountID,
			&rc.TransactionID,
			&rc.PhoneNumber,
			&rc.CountryCode,
			&rc.Amount,
			&rc.Status,
			&rc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recharge: %w", err)
		}
		recharges = append(recharges, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recharges: %w", err)
	}

	return recharges, nil
}
