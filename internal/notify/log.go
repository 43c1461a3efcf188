package notify

import (
	"context"
	"log/slog"

	"github.com/benx421/retail-ledger/internal/models"
)

// LogNotifier records events in the service log. It is used when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, txn *models.Transaction) error {
	event := NewTransactionEvent(txn)
	n.logger.InfoContext(ctx, "transaction posted",
		"routing_key", RoutingKey(txn),
		"transaction_id", event.TransactionID,
		"account_id", event.AccountID,
		"type", event.Type,
		"amount", event.Amount,
	)
	return nil
}

func (n *LogNotifier) Close() error { return nil }
