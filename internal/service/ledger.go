package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/benx421/retail-ledger/internal/models"
	"github.com/benx421/retail-ledger/internal/repository"
)

const (
	defaultDepositDescription    = "Deposit"
	defaultWithdrawalDescription = "Withdrawal"
)

// TransferResult holds both sides of a committed transfer
type TransferResult struct {
	Sender   *models.Account
	Receiver *models.Account
	Debit    *models.Transaction
	Credit   *models.Transaction
}

// LedgerService is the money movement engine. It is the only component that
// changes account balances; every other product composes its perform methods.
type LedgerService struct {
	runner
	reader *repository.Store
	now    func() time.Time
}

// NewLedgerService creates a new LedgerService. reader serves queries outside
// units of work.
func NewLedgerService(
	transactor repository.Transactor,
	reader *repository.Store,
	notifier Notifier,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		runner: runner{
			transactor: transactor,
			notifier:   notifier,
			logger:     logger,
		},
		reader: reader,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Deposit credits amount to the account
func (s *LedgerService) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*models.Account, error) {
	if err := validateMoney(amount); err != nil {
		return nil, err
	}
	if description == "" {
		description = defaultDepositDescription
	}

	var account *models.Account
	err := s.run(ctx, func(ctx context.Context, u *unit) error {
		var err error
		account, err = s.performDeposit(ctx, u, accountID, amount, description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deposit posted", "account_id", accountID, "amount", amount.StringFixed(2))
	return account, nil
}

// Withdraw debits amount from the account. Insufficient funds is reported as
// a ServiceError with ErrCodeInsufficientFunds and leaves no trace.
func (s *LedgerService) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*models.Account, error) {
	if err := validateMoney(amount); err != nil {
		return nil, err
	}
	if description == "" {
		description = defaultWithdrawalDescription
	}

	var account *models.Account
	err := s.run(ctx, func(ctx context.Context, u *unit) error {
		var err error
		account, err = lockAccount(ctx, u, accountID)
		if err != nil {
			return err
		}
		_, err = s.performDebit(ctx, u, account, amount, models.TransactionTypeWithdrawal, description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal posted", "account_id", accountID, "amount", amount.StringFixed(2))
	return account, nil
}

// Transfer moves amount from the sender to the account with receiverAccountNumber
// in one unit of work.
func (s *LedgerService) Transfer(ctx context.Context, senderID uuid.UUID, receiverAccountNumber string, amount decimal.Decimal) (*TransferResult, error) {
	if err := validateMoney(amount); err != nil {
		return nil, err
	}
	if err := ValidateAccountNumber(receiverAccountNumber); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidAccount,
			Message: err.Error(),
		}
	}

	var result *TransferResult
	err := s.run(ctx, func(ctx context.Context, u *unit) error {
		var err error
		result, err = s.performTransfer(ctx, u, senderID, receiverAccountNumber, amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer posted",
		"sender_id", senderID,
		"receiver_id", result.Receiver.ID,
		"amount", amount.StringFixed(2),
	)
	return result, nil
}

// performDeposit locks the account and credits it within u
func (s *LedgerService) performDeposit(
	ctx context.Context,
	u *unit,
	accountID uuid.UUID,
	amount decimal.Decimal,
	description string,
) (*models.Account, error) {
	account, err := lockAccount(ctx, u, accountID)
	if err != nil {
		return nil, err
	}

	if _, err := s.credit(ctx, u, account, amount, description); err != nil {
		return nil, err
	}

	return account, nil
}

// credit deposits amount into an account already locked in u
func (s *LedgerService) credit(
	ctx context.Context,
	u *unit,
	account *models.Account,
	amount decimal.Decimal,
	description string,
) (*models.Transaction, error) {
	return s.post(ctx, u, account, amount, models.TransactionTypeDeposit, description)
}

// performDebit removes amount from an account already locked in u
func (s *LedgerService) performDebit(
	ctx context.Context,
	u *unit,
	account *models.Account,
	amount decimal.Decimal,
	txnType models.TransactionType,
	description string,
) (*models.Transaction, error) {
	if account.Balance.LessThan(amount) {
		return nil, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds",
		}
	}

	return s.post(ctx, u, account, amount.Neg(), txnType, description)
}

// performTransfer contains the core transfer logic
func (s *LedgerService) performTransfer(
	ctx context.Context,
	u *unit,
	senderID uuid.UUID,
	receiverAccountNumber string,
	amount decimal.Decimal,
) (*TransferResult, error) {
	receiverRef, err := u.store.Accounts.FindByAccountNumber(ctx, receiverAccountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeReceiverNotFound,
			Message: "receiver account not found",
		}
	}
	if err != nil {
		return nil, internalError("failed to resolve receiver", err)
	}

	if receiverRef.ID == senderID {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidTransfer,
			Message: "cannot transfer to the same account",
		}
	}

	sender, receiver, err := lockPair(ctx, u, senderID, receiverRef.ID)
	if err != nil {
		return nil, err
	}

	debit, err := s.performDebit(ctx, u, sender, amount, models.TransactionTypeTransfer,
		"Sent to "+receiver.AccountNumber)
	if err != nil {
		return nil, err
	}

	credit, err := s.post(ctx, u, receiver, amount, models.TransactionTypeTransfer,
		"Received from "+sender.AccountNumber)
	if err != nil {
		return nil, err
	}

	return &TransferResult{
		Sender:   sender,
		Receiver: receiver,
		Debit:    debit,
		Credit:   credit,
	}, nil
}

// lockPair locks sender and receiver in ascending id order so that opposing
// concurrent transfers cannot deadlock.
func lockPair(ctx context.Context, u *unit, senderID, receiverID uuid.UUID) (sender, receiver *models.Account, err error) {
	lockReceiver := func() error {
		receiver, err = lockAccount(ctx, u, receiverID)
		if err != nil && ErrorCode(err) == ErrCodeAccountNotFound {
			return &ServiceError{
				Code:    ErrCodeReceiverNotFound,
				Message: "receiver account not found",
			}
		}
		return err
	}
	lockSender := func() error {
		sender, err = lockAccount(ctx, u, senderID)
		return err
	}

	order := []func() error{lockSender, lockReceiver}
	if bytes.Compare(receiverID[:], senderID[:]) < 0 {
		order = []func() error{lockReceiver, lockSender}
	}

	for _, lock := range order {
		if lockErr := lock(); lockErr != nil {
			return nil, nil, lockErr
		}
	}

	return sender, receiver, nil
}

// post applies a signed amount to a locked account and records the matching
// ledger entry in the same unit.
func (s *LedgerService) post(
	ctx context.Context,
	u *unit,
	account *models.Account,
	amount decimal.Decimal,
	txnType models.TransactionType,
	description string,
) (*models.Transaction, error) {
	amount = amount.RoundBank(2)

	balance, err := u.store.Accounts.AdjustBalance(ctx, account.ID, amount)
	if err != nil {
		return nil, internalError("failed to adjust balance", err)
	}

	txn := &models.Transaction{
		ID:          uuid.New(),
		AccountID:   account.ID,
		Amount:      amount,
		Type:        txnType,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := u.store.Transactions.Create(ctx, txn); err != nil {
		return nil, internalError("failed to record transaction", err)
	}

	account.Balance = balance
	u.posted = append(u.posted, txn)
	return txn, nil
}

// GetAccount returns the current state of an account
func (s *LedgerService) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.reader.Accounts.FindByID(ctx, accountID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
		}
	}
	if err != nil {
		return nil, internalError("failed to load account", err)
	}
	return account, nil
}

// ListTransactions returns the account history in [from, to), newest first.
// Zero bounds are open.
func (s *LedgerService) ListTransactions(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	txns, err := s.reader.Transactions.ListByAccount(ctx, accountID, from, to)
	if err != nil {
		return nil, internalError("failed to list transactions", err)
	}
	return txns, nil
}

// GetTransaction returns a single ledger entry, e.g. for a receipt
func (s *LedgerService) GetTransaction(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.reader.Transactions.FindByID(ctx, transactionID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeTransactionNotFound,
			Message: "transaction not found",
		}
	}
	if err != nil {
		return nil, internalError("failed to load transaction", err)
	}
	return txn, nil
}

func validateMoney(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: err.Error(),
		}
	}
	return nil
}
