package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/benx421/retail-ledger/internal/db"
	"github.com/benx421/retail-ledger/internal/models"
)

// reserveAttempts bounds the insert/lookup race with a concurrent Release
const reserveAttempts = 3

// IdempotencyRepository reserves client keys and records the response of the
// request that owns each key.
type IdempotencyRepository interface {
	Reserve(ctx context.Context, key, requestPath, requestHash string) (*models.IdempotencyKey, error)
	Complete(ctx context.Context, key, requestPath string, status int, body string) error
	Release(ctx context.Context, key, requestPath string) error
}

type idempotencyRepository struct {
	q db.Querier
}

// NewIdempotencyRepository creates a new IdempotencyRepository
func NewIdempotencyRepository(q db.Querier) IdempotencyRepository {
	return &idempotencyRepository{q: q}
}

// Reserve claims key on requestPath for the request hashed as requestHash.
// It returns nil when the caller now owns the key, and the existing row when
// another request claimed it first.
func (r *idempotencyRepository) Reserve(ctx context.Context, key, requestPath, requestHash string) (*models.IdempotencyKey, error) {
	insert := `
		INSERT INTO idempotency_keys (key, request_path, request_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	for range reserveAttempts {
		_, err := r.q.ExecContext(ctx, insert, key, requestPath, requestHash, time.Now().UTC())
		if err == nil {
			return nil, nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
		}

		existing, err := r.find(ctx, key, requestPath)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		// released between the insert and the lookup; claim it again
	}

	return nil, fmt.Errorf("failed to reserve idempotency key %q: contended", key)
}

// Complete records the response of the request that reserved key
func (r *idempotencyRepository) Complete(ctx context.Context, key, requestPath string, status int, body string) error {
	query := `
		UPDATE idempotency_keys
		SET response_status = $3, response_body = $4
		WHERE key = $1 AND request_path = $2 AND response_status = 0
	`

	if _, err := r.q.ExecContext(ctx, query, key, requestPath, status, body); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release drops an unfinished reservation so the client can retry the key
func (r *idempotencyRepository) Release(ctx context.Context, key, requestPath string) error {
	query := `
		DELETE FROM idempotency_keys
		WHERE key = $1 AND request_path = $2 AND response_status = 0
	`

	if _, err := r.q.ExecContext(ctx, query, key, requestPath); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

func (r *idempotencyRepository) find(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	query := `
		SELECT key, request_path, request_hash, response_status, response_body, created_at
		FROM idempotency_keys
		WHERE key = $1 AND request_path = $2
	`

	var idemKey models.IdempotencyKey
	err := r.q.QueryRowContext(ctx, query, key, requestPath).Scan(
		&idemKey.Key,
		&idemKey.RequestPath,
		&idemKey.RequestHash,
		&idemKey.ResponseStatus,
		&idemKey.ResponseBody,
		&idemKey.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	return &idemKey, nil
}
