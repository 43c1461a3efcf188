package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "Deposit"
	TransactionTypeWithdrawal TransactionType = "Withdrawal"
	TransactionTypeTransfer   TransactionType = "Transfer"
	TransactionTypeRecharge   TransactionType = "Recharge"
)

// Transaction is an immutable ledger entry. Amount is signed: credits are
// positive, debits negative.
type Transaction struct {
	CreatedAt   time.Time       `db:"created_at"`
	Description string          `db:"description"`
	Type        TransactionType `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	ID          uuid.UUID       `db:"id"`
	AccountID   uuid.UUID       `db:"account_id"`
}

// IsCredit reports whether the entry increased the balance
func (t *Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// IdempotencyKey reserves a client key for one request body on one path.
// ResponseStatus stays zero until the first request under the key completes.
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	RequestHash    string    `db:"request_hash"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}

// Completed reports whether a response has been recorded for the key
func (k *IdempotencyKey) Completed() bool {
	return k.ResponseStatus != 0
}
