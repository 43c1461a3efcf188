package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/benx421/retail-ledger/internal/models"
)

// RechargeRequest is a mobile top-up paid from an account
type RechargeRequest struct {
	PhoneNumber string
	CountryCode string
	Amount      decimal.Decimal
	AccountID   uuid.UUID
}

// RechargeStrategy decides whether an account may pay for a recharge.
// A non-empty reason rejects it.
type RechargeStrategy interface {
	Validate(account *models.Account, amount decimal.Decimal) (reason string)
}

// DefaultRechargeStrategy requires a positive amount covered by the balance
type DefaultRechargeStrategy struct{}

func (DefaultRechargeStrategy) Validate(account *models.Account, amount decimal.Decimal) string {
	if !amount.IsPositive() {
		return "Invalid recharge amount"
	}
	if account.Balance.LessThan(amount) {
		return "Insufficient balance"
	}
	return ""
}

// RechargeService debits accounts for mobile top-ups
type RechargeService struct {
	ledger   *LedgerService
	strategy RechargeStrategy
}

// NewRechargeService creates a new RechargeService
func NewRechargeService(ledger *LedgerService, strategy RechargeStrategy) *RechargeService {
	if strategy == nil {
		strategy = DefaultRechargeStrategy{}
	}
	return &RechargeService{
		ledger:   ledger,
		strategy: strategy,
	}
}

// ProcessRecharge debits the account and records the top-up
func (s *RechargeService) ProcessRecharge(ctx context.Context, req RechargeRequest) (*models.MobileRecharge, error) {
	if err := validateRechargeRequest(req); err != nil {
		return nil, err
	}

	var recharge *models.MobileRecharge
	err := s.ledger.run(ctx, func(ctx context.Context, u *unit) error {
		var err error
		recharge, err = s.performRecharge(ctx, u, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.ledger.logger.Info("recharge processed",
		"recharge_id", recharge.ID,
		"account_id", req.AccountID,
		"amount", req.Amount.StringFixed(2),
	)
	return recharge, nil
}

func validateRechargeRequest(req RechargeRequest) error {
	if err := validateMoney(req.Amount); err != nil {
		return err
	}
	if err := ValidatePhoneNumber(req.PhoneNumber); err != nil {
		return &ServiceError{
			Code:    ErrCodeInvalidPhone,
			Message: err.Error(),
		}
	}
	if err := ValidateCountryCode(req.CountryCode); err != nil {
		return &ServiceError{
			Code:    ErrCodeInvalidCountryCode,
			Message: err.Error(),
		}
	}
	return nil
}

func (s *RechargeService) performRecharge(ctx context.Context, u *unit, req RechargeRequest) (*models.MobileRecharge, error) {
	account, err := lockAccount(ctx, u, req.AccountID)
	if err != nil {
		return nil, err
	}

	if reason := s.strategy.Validate(account, req.Amount); reason != "" {
		return nil, &ServiceError{
			Code:    ErrCodeRechargeRejected,
			Message: reason,
		}
	}

	description := fmt.Sprintf("Mobile Recharge (%s) %s", req.CountryCode, req.PhoneNumber)
	txn, err := s.ledger.performDebit(ctx, u, account, req.Amount, models.TransactionTypeRecharge, description)
	if err != nil {
		return nil, err
	}

	recharge := &models.MobileRecharge{
		ID:            uuid.New(),
		AccountID:     account.ID,
		TransactionID: txn.ID,
		PhoneNumber:   req.PhoneNumber,
		CountryCode:   req.CountryCode,
		Amount:        req.Amount,
		Status:        models.RechargeStatusSuccess,
		CreatedAt:     txn.CreatedAt,
	}
	if err := u.store.Recharges.Create(ctx, recharge); err != nil {
		return nil, internalError("failed to record recharge", err)
	}

	return recharge, nil
}

// ListRecharges returns the account's top-ups, newest first
func (s *RechargeService) ListRecharges(ctx context.Context, accountID uuid.UUID) ([]*models.MobileRecharge, error) {
	if _, err := s.ledger.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	recharges, err := s.ledger.reader.Recharges.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, internalError("failed to list recharges", err)
	}
	return recharges, nil
}
