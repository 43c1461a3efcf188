package handlers

import (
	"net/http"

	"github.com/benx421/retail-ledger/internal/service"
)

// CreateRecharge handles POST /api/v1/recharges
func (h *Handler) CreateRecharge(w http.ResponseWriter, r *http.Request) {
	var req RechargeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	recharge, err := h.recharges.ProcessRecharge(r.Context(), service.RechargeRequest{
		AccountID:   req.AccountID,
		PhoneNumber: req.PhoneNumber,
		CountryCode: req.CountryCode,
		Amount:      req.Amount,
	})
	if err != nil {
		h.handleServiceError(w, r, "recharge", err)
		return
	}

	writeJSON(w, http.StatusCreated, toRechargeResponse(recharge))
}

// ApplyForLoan handles POST /api/v1/loans. Rejected applications are a
// successful review and return 201 with status Rejected.
func (h *Handler) ApplyForLoan(w http.ResponseWriter, r *http.Request) {
	var req LoanRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	loan, err := h.loans.Apply(r.Context(), service.LoanApplication{
		AccountID: req.AccountID,
		Scheme:    req.Scheme,
		Amount:    req.Amount,
	})
	if err != nil {
		h.handleServiceError(w, r, "loan application", err)
		return
	}

	writeJSON(w, http.StatusCreated, toLoanResponse(loan))
}

// SettleDueLoans handles POST /api/v1/loans/settlements. A run cut short by
// the request deadline still answers 200 with its partial counts.
func (h *Handler) SettleDueLoans(w http.ResponseWriter, r *http.Request) {
	report, err := h.settler.SettleDueLoans(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "loan settlement", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
