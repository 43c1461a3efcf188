package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/benx421/retail-ledger/internal/service"
)

// GetAccount handles GET /api/v1/accounts/{accountId}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountId")
	if err != nil {
		writeError(w, http.StatusNotFound, service.ErrCodeAccountNotFound, "account not found")
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, r, "account lookup", err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// ListTransactions handles GET /api/v1/accounts/{accountId}/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountId")
	if err != nil {
		writeError(w, http.StatusNotFound, service.ErrCodeAccountNotFound, "account not found")
		return
	}

	from, to, err := bindTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	txns, err := h.ledger.ListTransactions(r.Context(), accountID, from, to)
	if err != nil {
		h.handleServiceError(w, r, "transaction listing", err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionList(txns))
}

// GetAccountSummary handles GET /api/v1/accounts/{accountId}/summary
func (h *Handler) GetAccountSummary(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountId")
	if err != nil {
		writeError(w, http.StatusNotFound, service.ErrCodeAccountNotFound, "account not found")
		return
	}

	var months *int
	if err := runtime.BindQueryParameter("form", true, false, "months", r.URL.Query(), &months); err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}
	window := service.DefaultSummaryMonths
	if months != nil {
		if *months < 1 || *months > service.MaxSummaryMonths {
			writeError(w, http.StatusBadRequest, errCodeInvalidRequest,
				fmt.Sprintf("months must be between 1 and %d", service.MaxSummaryMonths))
			return
		}
		window = *months
	}

	summary, err := h.ledger.Summary(r.Context(), accountID, window)
	if err != nil {
		h.handleServiceError(w, r, "account summary", err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountSummaryResponse(summary))
}

// bindTimeRange reads the optional from and to query parameters (RFC 3339)
func bindTimeRange(r *http.Request) (from, to time.Time, err error) {
	var fromParam, toParam *time.Time

	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "from", query, &fromParam); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "to", query, &toParam); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if fromParam != nil {
		from = *fromParam
	}
	if toParam != nil {
		to = *toParam
	}
	return from, to, nil
}

// ListAccountLoans handles GET /api/v1/accounts/{accountId}/loans
func (h *Handler) ListAccountLoans(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountId")
	if err != nil {
		writeError(w, http.StatusNotFound, service.ErrCodeAccountNotFound, "account not found")
		return
	}

	loans, err := h.loans.ListLoans(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, r, "loan listing", err)
		return
	}

	writeJSON(w, http.StatusOK, toLoanList(loans))
}

// ListAccountRecharges handles GET /api/v1/accounts/{accountId}/recharges
func (h *Handler) ListAccountRecharges(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountId")
	if err != nil {
		writeError(w, http.StatusNotFound, service.ErrCodeAccountNotFound, "account not found")
		return
	}

	recharges, err := h.recharges.ListRecharges(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, r, "recharge listing", err)
		return
	}

	writeJSON(w, http.StatusOK, toRechargeList(recharges))
}

// ApplyInterest handles POST /api/v1/accounts/{accountId}/interest
func (h *Handler) ApplyInterest(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountId")
	if err != nil {
		writeError(w, http.StatusNotFound, service.ErrCodeAccountNotFound, "account not found")
		return
	}

	result, err := h.interest.ApplyInterest(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, r, "interest", err)
		return
	}

	writeJSON(w, http.StatusOK, toInterestResponse(result))
}
