package service

import (
	"errors"
	"fmt"
)

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInvalidAmount       = "invalid_amount"
	ErrCodeInvalidScheme       = "invalid_scheme"
	ErrCodeInvalidPhone        = "invalid_phone"
	ErrCodeInvalidCountryCode  = "invalid_country_code"
	ErrCodeInvalidAccount      = "invalid_account_number"
	ErrCodeInvalidTransfer     = "invalid_transfer"
	ErrCodeAccountNotFound     = "account_not_found"
	ErrCodeReceiverNotFound    = "receiver_not_found"
	ErrCodeTransactionNotFound = "transaction_not_found"
	ErrCodeInsufficientFunds   = "insufficient_funds"
	ErrCodeRechargeRejected    = "recharge_rejected"
	ErrCodeInternalError       = "internal_error"
)

// ErrorCode returns the code of the ServiceError in err's chain, or
// ErrCodeInternalError for any other error. Nil yields an empty string.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ErrCodeInternalError
}

// IsBusinessFailure reports whether err is an expected outcome callers branch on
// (insufficient funds, rejected recharge) rather than a fault.
func IsBusinessFailure(err error) bool {
	switch ErrorCode(err) {
	case ErrCodeInsufficientFunds, ErrCodeRechargeRejected:
		return true
	default:
		return false
	}
}

func internalError(message string, err error) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeInternalError,
		Message: message,
		Err:     err,
	}
}
