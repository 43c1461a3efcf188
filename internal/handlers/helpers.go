package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/benx421/retail-ledger/internal/service"
)

const (
	errCodeInvalidRequest = "invalid_request"
	errCodeNotFound       = "not_found"

	maxBodyBytes = 1 << 20
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Nothing useful to do if write fails
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// decodeBody decodes a JSON request body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathUUID parses a UUID path parameter
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeInvalidAmount,
		service.ErrCodeInvalidScheme,
		service.ErrCodeInvalidPhone,
		service.ErrCodeInvalidCountryCode,
		service.ErrCodeInvalidAccount,
		service.ErrCodeInvalidTransfer:
		return http.StatusBadRequest
	case service.ErrCodeAccountNotFound,
		service.ErrCodeReceiverNotFound,
		service.ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case service.ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case service.ErrCodeRechargeRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func extractServiceError(err error) *service.ServiceError {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// handleServiceError maps service errors to appropriate HTTP responses.
// Internal details are logged, never returned.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	svcErr := extractServiceError(err)
	if svcErr == nil || svcErr.Code == service.ErrCodeInternalError {
		h.logger.ErrorContext(r.Context(), "unexpected error during "+op, "error", err)
		writeError(w, http.StatusInternalServerError, service.ErrCodeInternalError, "internal error")
		return
	}

	writeError(w, statusForCode(svcErr.Code), svcErr.Code, svcErr.Message)
}
