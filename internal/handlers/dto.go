package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/benx421/retail-ledger/internal/models"
	"github.com/benx421/retail-ledger/internal/service"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
}

// MovementRequest is the body of deposit and withdrawal requests.
// Amount accepts a JSON string or number.
type MovementRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	AccountID   uuid.UUID       `json:"account_id"`
}

// TransferRequest is the body of POST /api/v1/transfers
type TransferRequest struct {
	ReceiverAccountNumber string          `json:"receiver_account_number"`
	Amount                decimal.Decimal `json:"amount"`
	SenderAccountID       uuid.UUID       `json:"sender_account_id"`
}

// RechargeRequest is the body of POST /api/v1/recharges
type RechargeRequest struct {
	PhoneNumber string          `json:"phone_number"`
	CountryCode string          `json:"country_code"`
	Amount      decimal.Decimal `json:"amount"`
	AccountID   uuid.UUID       `json:"account_id"`
}

// LoanRequest is the body of POST /api/v1/loans. A missing amount requests the scheme ceiling.
type LoanRequest struct {
	Scheme    string          `json:"scheme"`
	Amount    decimal.Decimal `json:"amount"`
	AccountID uuid.UUID       `json:"account_id"`
}

type AccountResponse struct {
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	AccountNumber string    `json:"account_number"`
	AccountType   string    `json:"account_type"`
	Balance       string    `json:"balance"`
	ID            uuid.UUID `json:"id"`
}

type TransactionResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

type TransferResponse struct {
	ReceiverAccountNumber string              `json:"receiver_account_number"`
	Sender                AccountResponse     `json:"sender"`
	Debit                 TransactionResponse `json:"debit"`
}

type InterestResponse struct {
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	Interest    string               `json:"interest"`
	Account     AccountResponse      `json:"account"`
}

type RechargeResponse struct {
	CreatedAt     time.Time `json:"created_at"`
	PhoneNumber   string    `json:"phone_number"`
	CountryCode   string    `json:"country_code"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	ID            uuid.UUID `json:"id"`
	AccountID     uuid.UUID `json:"account_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
}

type RechargeListResponse struct {
	Recharges []RechargeResponse `json:"recharges"`
}

type LoanResponse struct {
	AppliedAt        time.Time  `json:"applied_at"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	Scheme           string     `json:"scheme"`
	Status           string     `json:"status"`
	PrincipalAmount  string     `json:"principal_amount"`
	ApprovedAmount   string     `json:"approved_amount"`
	BalanceRemaining string     `json:"balance_remaining"`
	InterestRate     string     `json:"interest_rate"`
	ID               uuid.UUID  `json:"id"`
	AccountID        uuid.UUID  `json:"account_id"`
	PendingRepayment bool       `json:"pending_repayment"`
}

type LoanListResponse struct {
	Loans []LoanResponse `json:"loans"`
}

// TypeTotalResponse totals one transaction type; debits is unsigned
type TypeTotalResponse struct {
	Type    string `json:"type"`
	Credits string `json:"credits"`
	Debits  string `json:"debits"`
	Count   int    `json:"count"`
}

// MonthlyBalanceResponse is one point of the balance trend; month is YYYY-MM
type MonthlyBalanceResponse struct {
	Month          string `json:"month"`
	Net            string `json:"net"`
	ClosingBalance string `json:"closing_balance"`
}

type AccountSummaryResponse struct {
	Totals  []TypeTotalResponse      `json:"totals"`
	Trend   []MonthlyBalanceResponse `json:"trend"`
	Account AccountResponse          `json:"account"`
}

func toAccountSummaryResponse(s *service.AccountSummary) AccountSummaryResponse {
	resp := AccountSummaryResponse{
		Account: toAccountResponse(s.Account),
		Totals:  make([]TypeTotalResponse, 0, len(s.Totals)),
		Trend:   make([]MonthlyBalanceResponse, 0, len(s.Trend)),
	}
	for _, t := range s.Totals {
		resp.Totals = append(resp.Totals, TypeTotalResponse{
			Type:    string(t.Type),
			Count:   t.Count,
			Credits: t.Credits.StringFixed(2),
			Debits:  t.Debits.StringFixed(2),
		})
	}
	for _, m := range s.Trend {
		resp.Trend = append(resp.Trend, MonthlyBalanceResponse{
			Month:          m.Month.Format("2006-01"),
			Net:            m.Net.StringFixed(2),
			ClosingBalance: m.Closing.StringFixed(2),
		})
	}
	return resp
}

func toAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		AccountType:   string(a.AccountType),
		Balance:       a.Balance.StringFixed(2),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        string(t.Type),
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func toTransactionList(txns []*models.Transaction) TransactionListResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	return TransactionListResponse{Transactions: out}
}

func toTransferResponse(r *service.TransferResult) TransferResponse {
	return TransferResponse{
		Sender:                toAccountResponse(r.Sender),
		ReceiverAccountNumber: r.Receiver.AccountNumber,
		Debit:                 toTransactionResponse(r.Debit),
	}
}

func toInterestResponse(r *service.InterestResult) InterestResponse {
	resp := InterestResponse{
		Account:  toAccountResponse(r.Account),
		Interest: r.Interest.StringFixed(2),
	}
	if r.Transaction != nil {
		txn := toTransactionResponse(r.Transaction)
		resp.Transaction = &txn
	}
	return resp
}

func toRechargeResponse(r *models.MobileRecharge) RechargeResponse {
	return RechargeResponse{
		ID:            r.ID,
		AccountID:     r.AccountID,
		TransactionID: r.TransactionID,
		PhoneNumber:   r.PhoneNumber,
		CountryCode:   r.CountryCode,
		Amount:        r.Amount.StringFixed(2),
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
	}
}

func toRechargeList(recharges []*models.MobileRecharge) RechargeListResponse {
	out := make([]RechargeResponse, 0, len(recharges))
	for _, r := range recharges {
		out = append(out, toRechargeResponse(r))
	}
	return RechargeListResponse{Recharges: out}
}

func toLoanResponse(l *models.Loan) LoanResponse {
	return LoanResponse{
		ID:               l.ID,
		AccountID:        l.AccountID,
		Scheme:           l.Scheme,
		Status:           string(l.Status),
		PrincipalAmount:  l.PrincipalAmount.StringFixed(2),
		ApprovedAmount:   l.ApprovedAmount.StringFixed(2),
		BalanceRemaining: l.BalanceRemaining.StringFixed(2),
		InterestRate:     l.InterestRate.StringFixed(4),
		AppliedAt:        l.AppliedAt,
		ReviewedAt:       l.ReviewedAt,
		DueDate:          l.DueDate,
		PendingRepayment: l.PendingRepayment,
	}
}

func toLoanList(loans []*models.Loan) LoanListResponse {
	out := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, toLoanResponse(l))
	}
	return LoanListResponse{Loans: out}
}
