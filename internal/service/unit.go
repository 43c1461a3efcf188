package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/benx421/retail-ledger/internal/models"
	"github.com/benx421/retail-ledger/internal/repository"
)

// Notifier is told about every ledger entry after its unit of work commits
type Notifier interface {
	Notify(ctx context.Context, txn *models.Transaction) error
}

// unit is one unit of work: repositories bound to a single database
// transaction plus the ledger entries posted through it. Nested money
// movement receives the unit explicitly so it shares the same boundary.
type unit struct {
	store  *repository.Store
	posted []*models.Transaction
}

// runner executes units of work and announces their entries after commit
type runner struct {
	transactor repository.Transactor
	notifier   Notifier
	logger     *slog.Logger
}

func (r *runner) run(ctx context.Context, fn func(ctx context.Context, u *unit) error) error {
	var posted []*models.Transaction

	err := r.transactor.WithinTx(ctx, func(ctx context.Context, store *repository.Store) error {
		u := &unit{store: store}
		if err := fn(ctx, u); err != nil {
			return err
		}
		posted = u.posted
		return nil
	})
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			return err
		}
		return internalError("unit of work failed", err)
	}

	r.announce(ctx, posted)
	return nil
}

// announce notifies about committed entries. Failures are logged only: the
// money has already moved.
func (r *runner) announce(ctx context.Context, posted []*models.Transaction) {
	if r.notifier == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, txn := range posted {
		if err := r.notifier.Notify(ctx, txn); err != nil {
			r.logger.Warn("transaction notification failed",
				"transaction_id", txn.ID,
				"account_id", txn.AccountID,
				"error", err,
			)
		}
	}
}

// lockAccount loads an account with a row lock held for the rest of the unit
func lockAccount(ctx context.Context, u *unit, id uuid.UUID) (*models.Account, error) {
	account, err := u.store.Accounts.FindByIDForUpdate(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
		}
	}
	if err != nil {
		return nil, internalError("failed to load account", err)
	}
	return account, nil
}
