// Package notify publishes committed ledger entries to downstream consumers.
package notify

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/retail-ledger/internal/models"
)

const routingKeyPrefix = "transaction.posted."

// TransactionEvent is the payload published for every committed ledger entry.
// Amount is a signed decimal string with two fractional digits.
type TransactionEvent struct {
	PostedAt      time.Time `json:"posted_at"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Description   string    `json:"description"`
	TransactionID uuid.UUID `json:"transaction_id"`
	AccountID     uuid.UUID `json:"account_id"`
	Credit        bool      `json:"credit"`
}

// NewTransactionEvent builds the event for txn
func NewTransactionEvent(txn *models.Transaction) TransactionEvent {
	return TransactionEvent{
		TransactionID: txn.ID,
		AccountID:     txn.AccountID,
		Type:          string(txn.Type),
		Amount:        txn.Amount.StringFixed(2),
		Description:   txn.Description,
		Credit:        txn.IsCredit(),
		PostedAt:      txn.CreatedAt,
	}
}

// RoutingKey returns the topic routing key for txn, e.g. "transaction.posted.deposit"
func RoutingKey(txn *models.Transaction) string {
	return routingKeyPrefix + strings.ToLower(string(txn.Type))
}
