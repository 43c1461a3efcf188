// Package mocks provides testify mocks of the service interfaces consumed by
// the HTTP layer.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/benx421/retail-ledger/internal/models"
	"github.com/benx421/retail-ledger/internal/service"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockLedger is a mock type for the Ledger type
type MockLedger struct {
	mock.Mock
}

func (_m *MockLedger) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*models.Account, error) {
	ret := _m.Called(ctx, accountID, amount, description)
	var r0 *models.Account
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedger) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*models.Account, error) {
	ret := _m.Called(ctx, accountID, amount, description)
	var r0 *models.Account
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedger) Transfer(ctx context.Context, senderID uuid.UUID, receiverAccountNumber string, amount decimal.Decimal) (*service.TransferResult, error) {
	ret := _m.Called(ctx, senderID, receiverAccountNumber, amount)
	var r0 *service.TransferResult
	if v := ret.Get(0); v != nil {
		r0 = v.(*service.TransferResult)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedger) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	ret := _m.Called(ctx, accountID)
	var r0 *models.Account
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedger) ListTransactions(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	ret := _m.Called(ctx, accountID, from, to)
	var r0 []*models.Transaction
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Transaction)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedger) GetTransaction(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error) {
	ret := _m.Called(ctx, transactionID)
	var r0 *models.Transaction
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Transaction)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedger) Summary(ctx context.Context, accountID uuid.UUID, months int) (*service.AccountSummary, error) {
	ret := _m.Called(ctx, accountID, months)
	var r0 *service.AccountSummary
	if v := ret.Get(0); v != nil {
		r0 = v.(*service.AccountSummary)
	}
	return r0, ret.Error(1)
}

// NewMockLedger creates a new instance of MockLedger.
// The mock's expectations are asserted when the test finishes.
func NewMockLedger(t testingT) *MockLedger {
	m := &MockLedger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockInterestApplier is a mock type for the InterestApplier type
type MockInterestApplier struct {
	mock.Mock
}

func (_m *MockInterestApplier) ApplyInterest(ctx context.Context, accountID uuid.UUID) (*service.InterestResult, error) {
	ret := _m.Called(ctx, accountID)
	var r0 *service.InterestResult
	if v := ret.Get(0); v != nil {
		r0 = v.(*service.InterestResult)
	}
	return r0, ret.Error(1)
}

// NewMockInterestApplier creates a new instance of MockInterestApplier.
func NewMockInterestApplier(t testingT) *MockInterestApplier {
	m := &MockInterestApplier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockLoanUnderwriter is a mock type for the LoanUnderwriter type
type MockLoanUnderwriter struct {
	mock.Mock
}

func (_m *MockLoanUnderwriter) Apply(ctx context.Context, app service.LoanApplication) (*models.Loan, error) {
	ret := _m.Called(ctx, app)
	var r0 *models.Loan
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanUnderwriter) ListLoans(ctx context.Context, accountID uuid.UUID) ([]*models.Loan, error) {
	ret := _m.Called(ctx, accountID)
	var r0 []*models.Loan
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Loan)
	}
	return r0, ret.Error(1)
}

// NewMockLoanUnderwriter creates a new instance of MockLoanUnderwriter.
func NewMockLoanUnderwriter(t testingT) *MockLoanUnderwriter {
	m := &MockLoanUnderwriter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockLoanSettler is a mock type for the LoanSettler type
type MockLoanSettler struct {
	mock.Mock
}

func (_m *MockLoanSettler) SettleDueLoans(ctx context.Context) (*service.SettlementReport, error) {
	ret := _m.Called(ctx)
	var r0 *service.SettlementReport
	if v := ret.Get(0); v != nil {
		r0 = v.(*service.SettlementReport)
	}
	return r0, ret.Error(1)
}

// NewMockLoanSettler creates a new instance of MockLoanSettler.
func NewMockLoanSettler(t testingT) *MockLoanSettler {
	m := &MockLoanSettler{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockRechargeProcessor is a mock type for the RechargeProcessor type
type MockRechargeProcessor struct {
	mock.Mock
}

func (_m *MockRechargeProcessor) ProcessRecharge(ctx context.Context, req service.RechargeRequest) (*models.MobileRecharge, error) {
	ret := _m.Called(ctx, req)
	var r0 *models.MobileRecharge
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.MobileRecharge)
	}
	return r0, ret.Error(1)
}

func (_m *MockRechargeProcessor) ListRecharges(ctx context.Context, accountID uuid.UUID) ([]*models.MobileRecharge, error) {
	ret := _m.Called(ctx, accountID)
	var r0 []*models.MobileRecharge
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.MobileRecharge)
	}
	return r0, ret.Error(1)
}

// NewMockRechargeProcessor creates a new instance of MockRechargeProcessor.
func NewMockRechargeProcessor(t testingT) *MockRechargeProcessor {
	m := &MockRechargeProcessor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockHealthChecker is a mock type for the HealthChecker type
type MockHealthChecker struct {
	mock.Mock
}

func (_m *MockHealthChecker) PingContext(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// NewMockHealthChecker creates a new instance of MockHealthChecker.
func NewMockHealthChecker(t testingT) *MockHealthChecker {
	m := &MockHealthChecker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockIdempotencyRepository is a mock type for the IdempotencyRepository type
type MockIdempotencyRepository struct {
	mock.Mock
}

func (_m *MockIdempotencyRepository) Reserve(ctx context.Context, key, requestPath, requestHash string) (*models.IdempotencyKey, error) {
	ret := _m.Called(ctx, key, requestPath, requestHash)
	var r0 *models.IdempotencyKey
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.IdempotencyKey)
	}
	return r0, ret.Error(1)
}

func (_m *MockIdempotencyRepository) Complete(ctx context.Context, key, requestPath string, status int, body string) error {
	ret := _m.Called(ctx, key, requestPath, status, body)
	return ret.Error(0)
}

func (_m *MockIdempotencyRepository) Release(ctx context.Context, key, requestPath string) error {
	ret := _m.Called(ctx, key, requestPath)
	return ret.Error(0)
}

// NewMockIdempotencyRepository creates a new instance of MockIdempotencyRepository.
func NewMockIdempotencyRepository(t testingT) *MockIdempotencyRepository {
	m := &MockIdempotencyRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
