package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/benx421/retail-ledger/internal/db"
)

// Store groups the repositories bound to one database handle. When built
// from a *sql.Tx every call shares that transaction.
type Store struct {
	Accounts     AccountRepository
	Transactions TransactionRepository
	Loans        LoanRepository
	Recharges    RechargeRepository
}

// NewStore binds all repositories to q
func NewStore(q db.Querier) *Store {
	return &Store{
		Accounts:     NewAccountRepository(q),
		Transactions: NewTransactionRepository(q),
		Loans:        NewLoanRepository(q),
		Recharges:    NewRechargeRepository(q),
	}
}

// Transactor runs units of work. fn either fully commits or leaves no trace.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store *Store) error) error
}

type transactor struct {
	db         *db.DB
	logger     *slog.Logger
	maxRetries int
}

// NewTransactor creates a Transactor that reruns fn up to maxRetries times
// when Postgres aborts the transaction with a serialization failure or deadlock.
func NewTransactor(database *db.DB, maxRetries int) Transactor {
	return &transactor{
		db:         database,
		logger:     database.Logger(),
		maxRetries: maxRetries,
	}
}

// WithinTx runs fn in a READ COMMITTED transaction. Row locks taken with
// FOR UPDATE serialize concurrent work on the same account.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, store *Store) error) error {
	var err error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		err = t.runOnce(ctx, fn)
		if err == nil || !db.IsRetryable(err) || ctx.Err() != nil {
			return err
		}
		t.logger.Warn("retrying aborted transaction",
			"attempt", attempt+1,
			"max_retries", t.maxRetries,
			"error", err,
		)
	}
	return err
}

func (t *transactor) runOnce(ctx context.Context, fn func(ctx context.Context, store *Store) error) error {
	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	if err := fn(ctx, NewStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
