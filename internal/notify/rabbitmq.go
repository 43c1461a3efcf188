package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/benx421/retail-ledger/internal/models"
)

const dialTimeout = 10 * time.Second

// channel is the subset of *amqp091.Channel used for publishing
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// RabbitMQNotifier publishes transaction events to a durable topic exchange
type RabbitMQNotifier struct {
	conn     *amqp091.Connection
	ch       channel
	logger   *slog.Logger
	exchange string
	timeout  time.Duration
	mu       sync.Mutex
}

// NewRabbitMQNotifier connects to the broker and declares the exchange
func NewRabbitMQNotifier(amqpURL, exchange string, timeout time.Duration, logger *slog.Logger) (*RabbitMQNotifier, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	n := &RabbitMQNotifier{
		conn:     conn,
		ch:       ch,
		logger:   logger,
		exchange: exchange,
		timeout:  timeout,
	}
	if err := n.declare(); err != nil {
		_ = n.Close() //nolint:errcheck // already failing
		return nil, err
	}

	return n, nil
}

func newRabbitMQNotifierWithChannel(ch channel, exchange string, timeout time.Duration, logger *slog.Logger) *RabbitMQNotifier {
	return &RabbitMQNotifier{
		ch:       ch,
		logger:   logger,
		exchange: exchange,
		timeout:  timeout,
	}
}

func (n *RabbitMQNotifier) declare() error {
	if err := n.ch.ExchangeDeclare(n.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", n.exchange, err)
	}
	return nil
}

// Notify publishes txn. A failed publish is retried once on a fresh channel.
func (n *RabbitMQNotifier) Notify(ctx context.Context, txn *models.Transaction) error {
	body, err := json.Marshal(NewTransactionEvent(txn))
	if err != nil {
		return fmt.Errorf("failed to encode transaction event: %w", err)
	}

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    txn.ID.String(),
		Type:         string(txn.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	key := RoutingKey(txn)

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.ch.PublishWithContext(ctx, n.exchange, key, false, false, msg)
	if err == nil {
		return nil
	}

	n.logger.Warn("publish failed, reopening channel",
		"exchange", n.exchange,
		"routing_key", key,
		"error", err,
	)
	if reopenErr := n.reopen(); reopenErr != nil {
		return errors.Join(err, reopenErr)
	}

	if err := n.ch.PublishWithContext(ctx, n.exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish transaction event: %w", err)
	}
	return nil
}

func (n *RabbitMQNotifier) reopen() error {
	if n.conn == nil || n.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}

	ch, err := n.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to reopen rabbitmq channel: %w", err)
	}
	_ = n.ch.Close() //nolint:errcheck // replacing a broken channel
	n.ch = ch

	return n.declare()
}

// Close closes the channel and connection
func (n *RabbitMQNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var errs []error
	if n.ch != nil {
		errs = append(errs, n.ch.Close())
	}
	if n.conn != nil {
		errs = append(errs, n.conn.Close())
	}
	return errors.Join(errs...)
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")

	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("invalid rabbitmq url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("rabbitmq url scheme must be amqp:// or amqps://")
	}
	return clean, nil
}
