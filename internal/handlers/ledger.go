package handlers

import (
	"net/http"

	"github.com/benx421/retail-ledger/internal/service"
)

// GetTransaction handles GET /api/v1/transactions/{transactionId}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	txnID, err := pathUUID(r, "transactionId")
	if err != nil {
		writeError(w, http.StatusNotFound, service.ErrCodeTransactionNotFound, "transaction not found")
		return
	}

	txn, err := h.ledger.GetTransaction(r.Context(), txnID)
	if err != nil {
		h.handleServiceError(w, r, "transaction lookup", err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(txn))
}

// CreateDeposit handles POST /api/v1/deposits
func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	var req MovementRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	account, err := h.ledger.Deposit(r.Context(), req.AccountID, req.Amount, req.Description)
	if err != nil {
		h.handleServiceError(w, r, "deposit", err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// CreateWithdrawal handles POST /api/v1/withdrawals
func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req MovementRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	account, err := h.ledger.Withdraw(r.Context(), req.AccountID, req.Amount, req.Description)
	if err != nil {
		h.handleServiceError(w, r, "withdrawal", err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// CreateTransfer handles POST /api/v1/transfers
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	result, err := h.ledger.Transfer(r.Context(), req.SenderAccountID, req.ReceiverAccountNumber, req.Amount)
	if err != nil {
		h.handleServiceError(w, r, "transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, toTransferResponse(result))
}
