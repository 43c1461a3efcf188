package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benx421/retail-ledger/internal/models"
	"github.com/benx421/retail-ledger/internal/service"
	"github.com/benx421/retail-ledger/internal/service/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testDeps bundles the service mocks behind a router
type testDeps struct {
	ledger    *mocks.MockLedger
	interest  *mocks.MockInterestApplier
	loans     *mocks.MockLoanUnderwriter
	settler   *mocks.MockLoanSettler
	recharges *mocks.MockRechargeProcessor
	health    *mocks.MockHealthChecker
	router    http.Handler
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	d := &testDeps{
		ledger:    mocks.NewMockLedger(t),
		interest:  mocks.NewMockInterestApplier(t),
		loans:     mocks.NewMockLoanUnderwriter(t),
		settler:   mocks.NewMockLoanSettler(t),
		recharges: mocks.NewMockRechargeProcessor(t),
		health:    mocks.NewMockHealthChecker(t),
	}
	h := NewHandler(d.ledger, d.interest, d.loans, d.settler, d.recharges, d.health, testLogger())
	d.router = NewRouter(h, mocks.NewMockIdempotencyRepository(t), testLogger())
	return d
}

func (d *testDeps) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	d.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func decimalEq(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func sampleAccount(balance string) *models.Account {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Account{
		ID:            uuid.New(),
		AccountNumber: "1234567890",
		AccountType:   models.AccountTypeSavings,
		Balance:       decimal.RequireFromString(balance),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestGetHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		d := newTestDeps(t)
		d.health.On("PingContext", mock.Anything).Return(nil)

		rec := d.do(http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, statusHealthy, decodeResponse[HealthResponse](t, rec).Status)
	})

	t.Run("database unreachable", func(t *testing.T) {
		d := newTestDeps(t)
		d.health.On("PingContext", mock.Anything).Return(errors.New("connection refused"))

		rec := d.do(http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, statusUnhealthy, decodeResponse[HealthResponse](t, rec).Status)
	})
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{service.ErrCodeInvalidAmount, http.StatusBadRequest},
		{service.ErrCodeInvalidScheme, http.StatusBadRequest},
		{service.ErrCodeInvalidPhone, http.StatusBadRequest},
		{service.ErrCodeInvalidCountryCode, http.StatusBadRequest},
		{service.ErrCodeInvalidAccount, http.StatusBadRequest},
		{service.ErrCodeInvalidTransfer, http.StatusBadRequest},
		{service.ErrCodeAccountNotFound, http.StatusNotFound},
		{service.ErrCodeReceiverNotFound, http.StatusNotFound},
		{service.ErrCodeTransactionNotFound, http.StatusNotFound},
		{service.ErrCodeInsufficientFunds, http.StatusPaymentRequired},
		{service.ErrCodeRechargeRejected, http.StatusUnprocessableEntity},
		{service.ErrCodeInternalError, http.StatusInternalServerError},
		{"something_else", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForCode(tt.code))
		})
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	d := newTestDeps(t)
	id := uuid.New()
	d.ledger.On("GetAccount", mock.Anything, id).
		Return(nil, errors.New("pq: password authentication failed for user ledger"))

	rec := d.do(http.MethodGet, "/api/v1/accounts/"+id.String(), "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse[ErrorResponse](t, rec)
	assert.Equal(t, service.ErrCodeInternalError, resp.Error)
	assert.Equal(t, "internal error", resp.Message)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUnknownRoute(t *testing.T) {
	d := newTestDeps(t)

	rec := d.do(http.MethodGet, "/api/v1/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errCodeNotFound, decodeResponse[ErrorResponse](t, rec).Error)
}

func TestDocsRoutesMounted(t *testing.T) {
	d := newTestDeps(t)

	rec := d.do(http.MethodGet, "/docs/openapi", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Retail Ledger API")
}
