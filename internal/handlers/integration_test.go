//nolint:errcheck // unchecked errors are acceptable in test files
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benx421/retail-ledger/internal/config"
	"github.com/benx421/retail-ledger/internal/db"
	"github.com/benx421/retail-ledger/internal/handlers"
	"github.com/benx421/retail-ledger/internal/notify"
)

// testServer runs the fully wired ledger against Postgres
type testServer struct {
	server   *httptest.Server
	database *db.DB
	accounts map[string]string // account number -> id
}

func setupServer(t *testing.T) *testServer {
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
	require.NoError(t, database.Migrate(context.Background()))

	ts := &testServer{database: database, accounts: map[string]string{}}
	ts.reset(t)

	app, err := handlers.NewApp(database, cfg, notify.NewLogNotifier(logger), logger)
	require.NoError(t, err)
	ts.server = httptest.NewServer(app.Router)

	t.Cleanup(func() {
		ts.server.Close()
		_ = ts.database.Close()
	})
	return ts
}

func (ts *testServer) reset(t *testing.T) {
	t.Helper()

	_, err := ts.database.ExecContext(context.Background(), `
		TRUNCATE TABLE idempotency_keys, mobile_recharges, loans, transactions CASCADE;
		DELETE FROM accounts;
		INSERT INTO accounts (account_number, account_type, balance) VALUES
			('2000000001', 'Savings', 1000.00),
			('2000000002', 'Current', 100.00);
	`)
	require.NoError(t, err, "failed to reset test data")

	rows, err := ts.database.QueryContext(context.Background(), `SELECT account_number, id FROM accounts`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var number, id string
		require.NoError(t, rows.Scan(&number, &id))
		ts.accounts[number] = id
	}
	require.NoError(t, rows.Err())
}

func (ts *testServer) post(t *testing.T, path string, body any, idempotencyKey string) *http.Response {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.server.URL+path, bytes.NewReader(jsonBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (ts *testServer) balance(t *testing.T, number string) decimal.Decimal {
	t.Helper()

	resp, err := http.Get(ts.server.URL + "/api/v1/accounts/" + ts.accounts[number])
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var account handlers.AccountResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&account))
	return decimal.RequireFromString(account.Balance)
}

func TestLedgerFlow_DepositWithdrawTransfer(t *testing.T) {
	ts := setupServer(t)
	savings := ts.accounts["2000000001"]

	resp := ts.post(t, "/api/v1/deposits", map[string]any{"account_id": savings, "amount": "250.25"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.post(t, "/api/v1/withdrawals", map[string]any{"account_id": savings, "amount": "50.25"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.post(t, "/api/v1/transfers", map[string]any{
		"sender_account_id":       savings,
		"receiver_account_number": "2000000002",
		"amount":                  "200",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.True(t, ts.balance(t, "2000000001").Equal(decimal.RequireFromString("1000")))
	assert.True(t, ts.balance(t, "2000000002").Equal(decimal.RequireFromString("300")))

	listResp, err := http.Get(ts.server.URL + "/api/v1/accounts/" + savings + "/transactions")
	require.NoError(t, err)
	defer listResp.Body.Close()

	var list handlers.TransactionListResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list.Transactions, 3)
	assert.Equal(t, "Transfer", list.Transactions[0].Type, "newest first")
	assert.Equal(t, "-200.00", list.Transactions[0].Amount)
	assert.Equal(t, "Deposit", list.Transactions[2].Type)
}

func TestLedgerFlow_OverdraftRejected(t *testing.T) {
	ts := setupServer(t)

	resp := ts.post(t, "/api/v1/withdrawals", map[string]any{
		"account_id": ts.accounts["2000000002"],
		"amount":     "100.01",
	}, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "insufficient_funds", body.Error)
	assert.True(t, ts.balance(t, "2000000002").Equal(decimal.RequireFromString("100")))
}

func TestIdempotency_ReplaysSameResponse(t *testing.T) {
	ts := setupServer(t)
	body := map[string]any{"account_id": ts.accounts["2000000002"], "amount": "10"}

	resp1 := ts.post(t, "/api/v1/deposits", body, "replay-test-key")
	require.Equal(t, http.StatusOK, resp1.StatusCode)
	body1, _ := io.ReadAll(resp1.Body)
	resp1.Body.Close()

	resp2 := ts.post(t, "/api/v1/deposits", body, "replay-test-key")
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	body2, _ := io.ReadAll(resp2.Body)
	resp2.Body.Close()

	assert.Equal(t, string(body1), string(body2))
	assert.Equal(t, "true", resp2.Header.Get("X-Idempotent-Replayed"))
	assert.True(t, ts.balance(t, "2000000002").Equal(decimal.RequireFromString("110")))
}

func TestIdempotency_ReusedKeyWithDifferentBodyRejected(t *testing.T) {
	ts := setupServer(t)
	account := ts.accounts["2000000002"]

	resp := ts.post(t, "/api/v1/deposits", map[string]any{"account_id": account, "amount": "10"}, "reuse-key")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.post(t, "/api/v1/deposits", map[string]any{"account_id": account, "amount": "999"}, "reuse-key")
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "idempotency_key_reused", body.Error)
	assert.True(t, ts.balance(t, "2000000002").Equal(decimal.RequireFromString("110")))
}

func TestIdempotency_ConcurrentSameKeyAppliesOnce(t *testing.T) {
	ts := setupServer(t)
	body := map[string]any{"account_id": ts.accounts["2000000002"], "amount": "5"}

	const clients = 8
	var wg sync.WaitGroup
	codes := make(chan int, clients)
	for range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := ts.post(t, "/api/v1/deposits", body, "burst-key")
			codes <- resp.StatusCode
			resp.Body.Close()
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Contains(t, []int{http.StatusOK, http.StatusConflict}, code)
	}
	assert.True(t, ts.balance(t, "2000000002").Equal(decimal.RequireFromString("105")))
}

func TestLedgerFlow_LargeDepositStored(t *testing.T) {
	ts := setupServer(t)

	resp := ts.post(t, "/api/v1/deposits", map[string]any{
		"account_id": ts.accounts["2000000002"],
		"amount":     "123456789012345678901234.50",
	}, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	want := decimal.RequireFromString("123456789012345678901334.50")
	assert.True(t, ts.balance(t, "2000000002").Equal(want))
}

func TestConcurrentWithdrawals_NeverOverdraw(t *testing.T) {
	ts := setupServer(t)

	const numGoroutines = 10
	var wg sync.WaitGroup
	results := make(chan int, numGoroutines)

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := ts.post(t, "/api/v1/withdrawals", map[string]any{
				"account_id": ts.accounts["2000000002"],
				"amount":     "30",
			}, "")
			results <- resp.StatusCode
			resp.Body.Close()
		}()
	}

	wg.Wait()
	close(results)

	succeeded, refused := 0, 0
	for code := range results {
		switch code {
		case http.StatusOK:
			succeeded++
		case http.StatusPaymentRequired:
			refused++
		}
	}

	assert.Equal(t, 3, succeeded, "only three 30.00 withdrawals fit in 100.00")
	assert.Equal(t, numGoroutines-3, refused)
	assert.True(t, ts.balance(t, "2000000002").Equal(decimal.RequireFromString("10")))
}

func TestRechargeAndLoanFlow(t *testing.T) {
	ts := setupServer(t)
	savings := ts.accounts["2000000001"]

	resp := ts.post(t, "/api/v1/recharges", map[string]any{
		"account_id":   savings,
		"phone_number": "5551234567",
		"country_code": "+1",
		"amount":       "25",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// 975 after the recharge covers half of a 500 loan
	resp = ts.post(t, "/api/v1/loans", map[string]any{
		"account_id": savings,
		"scheme":     "Personal",
		"amount":     "500",
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var loan handlers.LoanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loan))
	assert.Equal(t, "Approved", loan.Status)
	assert.True(t, ts.balance(t, "2000000001").Equal(decimal.RequireFromString("1475")))

	settle := ts.post(t, "/api/v1/loans/settlements", map[string]any{}, "")
	defer settle.Body.Close()
	require.Equal(t, http.StatusOK, settle.StatusCode)
}
