package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/benx421/retail-ledger/internal/models"
	"github.com/benx421/retail-ledger/internal/repository"
)

// memDB is an in-memory ledger store. Units of work run one at a time and
// are rolled back by restoring a snapshot when fn fails.
type memDB struct {
	unitMu sync.Mutex
	mu     sync.Mutex

	accounts  map[uuid.UUID]models.Account
	txns      []models.Transaction
	loans     map[uuid.UUID]models.Loan
	recharges []models.MobileRecharge

	// failTxnCreate makes the next Transactions.Create fail
	failTxnCreate error
}

type memSnapshot struct {
	accounts  map[uuid.UUID]models.Account
	txns      []models.Transaction
	loans     map[uuid.UUID]models.Loan
	recharges []models.MobileRecharge
}

func newMemDB() *memDB {
	return &memDB{
		accounts: make(map[uuid.UUID]models.Account),
		loans:    make(map[uuid.UUID]models.Loan),
	}
}

func (m *memDB) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := memSnapshot{
		accounts:  make(map[uuid.UUID]models.Account, len(m.accounts)),
		txns:      append([]models.Transaction(nil), m.txns...),
		loans:     make(map[uuid.UUID]models.Loan, len(m.loans)),
		recharges: append([]models.MobileRecharge(nil), m.recharges...),
	}
	for k, v := range m.accounts {
		s.accounts[k] = v
	}
	for k, v := range m.loans {
		s.loans[k] = v
	}
	return s
}

func (m *memDB) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = s.accounts
	m.txns = s.txns
	m.loans = s.loans
	m.recharges = s.recharges
}

func (m *memDB) store() *repository.Store {
	return &repository.Store{
		Accounts:     &memAccounts{m},
		Transactions: &memTransactions{m},
		Loans:        &memLoans{m},
		Recharges:    &memRecharges{m},
	}
}

func (m *memDB) WithinTx(ctx context.Context, fn func(ctx context.Context, store *repository.Store) error) error {
	m.unitMu.Lock()
	defer m.unitMu.Unlock()

	snap := m.snapshot()
	if err := fn(ctx, m.store()); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memDB) addAccount(t *testing.T, number string, accountType models.AccountType, balance string) *models.Account {
	t.Helper()
	now := time.Now().UTC()
	account := models.Account{
		ID:            uuid.New(),
		AccountNumber: number,
		AccountType:   accountType,
		Balance:       decimal.RequireFromString(balance),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.mu.Lock()
	m.accounts[account.ID] = account
	m.mu.Unlock()
	return &account
}

func (m *memDB) balance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	require.True(t, ok, "account %s missing", id)
	return account.Balance
}

func (m *memDB) entries(accountID uuid.UUID) []models.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, txn := range m.txns {
		if txn.AccountID == accountID {
			out = append(out, txn)
		}
	}
	return out
}

func (m *memDB) loan(t *testing.T, id uuid.UUID) models.Loan {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[id]
	require.True(t, ok, "loan %s missing", id)
	return loan
}

// requireLedgerInvariant checks that every balance equals the sum of its entries
// given the opening balances.
func (m *memDB) requireLedgerInvariant(t *testing.T, opening map[uuid.UUID]decimal.Decimal) {
	t.Helper()
	for id, open := range opening {
		sum := open
		for _, txn := range m.entries(id) {
			sum = sum.Add(txn.Amount)
		}
		require.True(t, sum.Equal(m.balance(t, id)),
			"account %s: balance %s != opening+entries %s", id, m.balance(t, id), sum)
	}
}

type memAccounts struct{ db *memDB }

func (r *memAccounts) FindByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	account, ok := r.db.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &account, nil
}

func (r *memAccounts) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.FindByID(ctx, id)
}

func (r *memAccounts) FindByAccountNumber(_ context.Context, number string) (*models.Account, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, account := range r.db.accounts {
		if account.AccountNumber == number {
			return &account, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memAccounts) AdjustBalance(_ context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	account, ok := r.db.accounts[id]
	if !ok {
		return decimal.Zero, models.ErrNotFound
	}
	account.Balance = account.Balance.Add(delta)
	account.UpdatedAt = time.Now().UTC()
	r.db.accounts[id] = account
	return account.Balance, nil
}

type memTransactions struct{ db *memDB }

func (r *memTransactions) Create(_ context.Context, txn *models.Transaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.failTxnCreate; err != nil {
		r.db.failTxnCreate = nil
		return err
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	r.db.txns = append(r.db.txns, *txn)
	return nil
}

func (r *memTransactions) FindByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, txn := range r.db.txns {
		if txn.ID == id {
			return &txn, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memTransactions) ListByAccount(_ context.Context, accountID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.Transaction
	for _, txn := range r.db.txns {
		if txn.AccountID != accountID {
			continue
		}
		if !from.IsZero() && txn.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !txn.CreatedAt.Before(to) {
			continue
		}
		out = append(out, &txn)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type memLoans struct{ db *memDB }

func (r *memLoans) Create(_ context.Context, loan *models.Loan) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.loans[loan.ID] = *loan
	return nil
}

func (r *memLoans) Save(_ context.Context, loan *models.Loan) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.loans[loan.ID]; !ok {
		return models.ErrNotFound
	}
	r.db.loans[loan.ID] = *loan
	return nil
}

func (r *memLoans) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*models.Loan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	loan, ok := r.db.loans[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &loan, nil
}

func (r *memLoans) List(_ context.Context, filter models.LoanFilter) ([]*models.Loan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.Loan
	for _, loan := range r.db.loans {
		if filter.AccountID != nil && loan.AccountID != *filter.AccountID {
			continue
		}
		if filter.Status != "" && loan.Status != filter.Status {
			continue
		}
		if filter.OutstandingOnly && !loan.BalanceRemaining.IsPositive() {
			continue
		}
		out = append(out, &loan)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].AppliedAt.Before(out[j].AppliedAt)
	})
	return out, nil
}

type memRecharges struct{ db *memDB }

func (r *memRecharges) Create(_ context.Context, recharge *models.MobileRecharge) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.recharges = append(r.db.recharges, *recharge)
	return nil
}

func (r *memRecharges) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*models.MobileRecharge, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.MobileRecharge
	for i := len(r.db.recharges) - 1; i >= 0; i-- {
		if rc := r.db.recharges[i]; rc.AccountID == accountID {
			out = append(out, &rc)
		}
	}
	return out, nil
}

// recordingNotifier collects notified transactions and can be made to fail
type recordingNotifier struct {
	mu   sync.Mutex
	seen []*models.Transaction
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, txn *models.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, txn)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.seen)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	db       *memDB
	notifier *recordingNotifier
	ledger   *LedgerService
}

func newFixture() *fixture {
	mem := newMemDB()
	notifier := &recordingNotifier{}
	return &fixture{
		db:       mem,
		notifier: notifier,
		ledger:   NewLedgerService(mem, mem.store(), notifier, discardLogger()),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
