// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/benx421/retail-ledger/internal/models"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockAccountRepository is a mock type for the AccountRepository type
type MockAccountRepository struct {
	mock.Mock
}

func (_m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	ret := _m.Called(ctx, id)
	var r0 *models.Account
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	ret := _m.Called(ctx, id)
	var r0 *models.Account
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	ret := _m.Called(ctx, accountNumber)
	var r0 *models.Account
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountRepository) AdjustBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	ret := _m.Called(ctx, accountID, delta)
	var r0 decimal.Decimal
	if v := ret.Get(0); v != nil {
		r0 = v.(decimal.Decimal)
	}
	return r0, ret.Error(1)
}

// NewMockAccountRepository creates a new instance of MockAccountRepository.
// The mock's expectations are asserted when the test finishes.
func NewMockAccountRepository(t testingT) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockTransactionRepository is a mock type for the TransactionRepository type
type MockTransactionRepository struct {
	mock.Mock
}

func (_m *MockTransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	ret := _m.Called(ctx, txn)
	return ret.Error(0)
}

func (_m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	ret := _m.Called(ctx, id)
	var r0 *models.Transaction
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Transaction)
	}
	return r0, ret.Error(1)
}

func (_m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	ret := _m.Called(ctx, accountID, from, to)
	var r0 []*models.Transaction
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Transaction)
	}
	return r0, ret.Error(1)
}

// NewMockTransactionRepository creates a new instance of MockTransactionRepository.
func NewMockTransactionRepository(t testingT) *MockTransactionRepository {
	m := &MockTransactionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockLoanRepository is a mock type for the LoanRepository type
type MockLoanRepository struct {
	mock.Mock
}

func (_m *MockLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	ret := _m.Called(ctx, loan)
	return ret.Error(0)
}

func (_m *MockLoanRepository) Save(ctx context.Context, loan *models.Loan) error {
	ret := _m.Called(ctx, loan)
	return ret.Error(0)
}

func (_m *MockLoanRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	ret := _m.Called(ctx, id)
	var r0 *models.Loan
	if v := ret.Get(0); v != nil {
		r0 = v.(*models.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) List(ctx context.Context, filter models.LoanFilter) ([]*models.Loan, error) {
	ret := _m.Called(ctx, filter)
	var r0 []*models.Loan
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.Loan)
	}
	return r0, ret.Error(1)
}

// NewMockLoanRepository creates a new instance of MockLoanRepository.
func NewMockLoanRepository(t testingT) *MockLoanRepository {
	m := &MockLoanRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockRechargeRepository is a mock type for the RechargeRepository type
type MockRechargeRepository struct {
	mock.Mock
}

func (_m *MockRechargeRepository) Create(ctx context.Context, recharge *models.MobileRecharge) error {
	ret := _m.Called(ctx, recharge)
	return ret.Error(0)
}

func (_m *MockRechargeRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.MobileRecharge, error) {
	ret := _m.Called(ctx, accountID)
	var r0 []*models.MobileRecharge
	if v := ret.Get(0); v != nil {
		r0 = v.([]*models.MobileRecharge)
	}
	return r0, ret.Error(1)
}

// NewMockRechargeRepository creates a new instance of MockRechargeRepository.
func NewMockRechargeRepository(t testingT) *MockRechargeRepository {
	m := &MockRechargeRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
