package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/benx421/retail-ledger/internal/config"
	"github.com/benx421/retail-ledger/internal/db"
	"github.com/benx421/retail-ledger/internal/models"
)

// Seeded account numbers
const (
	savingsAccountNumber = "1000000001"
	currentAccountNumber = "1000000002"
	emptyAccountNumber   = "1000000003"
)

// setupTestDB connects to the configured Postgres and applies the schema.
// Tests are skipped when no database is reachable.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err, "failed to load config")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}

	require.NoError(t, database.Migrate(context.Background()), "failed to migrate")
	resetTables(t, database)

	return database
}

func cleanupTestDB(t *testing.T, database *db.DB) {
	t.Helper()
	if err := database.Close(); err != nil {
		t.Logf("failed to close test database: %v", err)
	}
}

func resetTables(t *testing.T, database *db.DB) {
	t.Helper()

	_, err := database.ExecContext(context.Background(), `
		TRUNCATE TABLE idempotency_keys, mobile_recharges, loans, transactions CASCADE;
		DELETE FROM accounts;
		INSERT INTO accounts (account_number, account_type, balance) VALUES
			('1000000001', 'Savings', 1200.00),
			('1000000002', 'Current', 50.00),
			('1000000003', 'Savings', 0);
	`)
	require.NoError(t, err, "failed to reset tables")
}

func mustAccount(t *testing.T, database *db.DB, accountNumber string) *models.Account {
	t.Helper()

	account, err := NewAccountRepository(database).FindByAccountNumber(context.Background(), accountNumber)
	require.NoError(t, err, "failed to load seeded account")
	return account
}

var zeroTime time.Time

func timePtr(t time.Time) *time.Time {
	return &t
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
