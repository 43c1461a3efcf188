package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/benx421/retail-ledger/internal/models"
)

const (
	DefaultSummaryMonths = 6
	MaxSummaryMonths     = 24
)

// summaryTypes fixes the order of AccountSummary.Totals
var summaryTypes = []models.TransactionType{
	models.TransactionTypeDeposit,
	models.TransactionTypeWithdrawal,
	models.TransactionTypeTransfer,
	models.TransactionTypeRecharge,
}

// TypeTotal aggregates an account's entries of one type. Debits is a magnitude.
type TypeTotal struct {
	Type    models.TransactionType
	Count   int
	Credits decimal.Decimal
	Debits  decimal.Decimal
}

// MonthlyBalance is the net movement of one UTC calendar month and the
// balance the account closed it with.
type MonthlyBalance struct {
	Month   time.Time
	Net     decimal.Decimal
	Closing decimal.Decimal
}

// AccountSummary is the dashboard view of an account: lifetime totals per
// transaction type and a month-end balance trend, oldest month first.
type AccountSummary struct {
	Account *models.Account
	Totals  []TypeTotal
	Trend   []MonthlyBalance
}

// Summary builds the account summary over the last months calendar months,
// the current one included. months outside [1, MaxSummaryMonths] falls back
// to DefaultSummaryMonths. The account row is locked while the history is
// read so the trend ends exactly at the returned balance.
func (s *LedgerService) Summary(ctx context.Context, accountID uuid.UUID, months int) (*AccountSummary, error) {
	if months < 1 || months > MaxSummaryMonths {
		months = DefaultSummaryMonths
	}

	var summary *AccountSummary
	err := s.run(ctx, func(ctx context.Context, u *unit) error {
		account, err := lockAccount(ctx, u, accountID)
		if err != nil {
			return err
		}

		history, err := u.store.Transactions.ListByAccount(ctx, accountID, time.Time{}, time.Time{})
		if err != nil {
			return internalError("failed to load transaction history", err)
		}

		summary = summarize(account, history, s.now(), months)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func summarize(account *models.Account, history []*models.Transaction, now time.Time, months int) *AccountSummary {
	totals := make([]TypeTotal, len(summaryTypes))
	slot := make(map[models.TransactionType]int, len(summaryTypes))
	for i, typ := range summaryTypes {
		totals[i] = TypeTotal{Type: typ, Credits: decimal.Zero, Debits: decimal.Zero}
		slot[typ] = i
	}

	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1-months, 0)
	trend := make([]MonthlyBalance, months)
	for i := range trend {
		trend[i] = MonthlyBalance{Month: first.AddDate(0, i, 0), Net: decimal.Zero}
	}
	end := first.AddDate(0, months, 0)

	// entries after the last month are unwound from the current balance
	closing := account.Balance
	for _, txn := range history {
		if i, ok := slot[txn.Type]; ok {
			totals[i].Count++
			if txn.IsCredit() {
				totals[i].Credits = totals[i].Credits.Add(txn.Amount)
			} else {
				totals[i].Debits = totals[i].Debits.Sub(txn.Amount)
			}
		}

		at := txn.CreatedAt.UTC()
		if !at.Before(end) {
			closing = closing.Sub(txn.Amount)
			continue
		}
		idx := (at.Year()-first.Year())*12 + int(at.Month()) - int(first.Month())
		if idx >= 0 && idx < months {
			trend[idx].Net = trend[idx].Net.Add(txn.Amount)
		}
	}

	for i := months - 1; i >= 0; i-- {
		trend[i].Closing = closing
		closing = closing.Sub(trend[i].Net)
	}

	return &AccountSummary{Account: account, Totals: totals, Trend: trend}
}
