package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	t.Run("error without underlying cause", func(t *testing.T) {
		err := &ServiceError{Code: ErrCodeInsufficientFunds, Message: "insufficient funds"}
		assert.Equal(t, "insufficient funds", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("error with underlying cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := internalError("failed to adjust balance", cause)

		assert.Equal(t, "failed to adjust balance: connection reset", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, ErrCodeInternalError, err.Code)
	})
}

func TestErrorCode(t *testing.T) {
	assert.Empty(t, ErrorCode(nil))
	assert.Equal(t, ErrCodeInternalError, ErrorCode(errors.New("boom")))

	wrapped := fmt.Errorf("transfer: %w", &ServiceError{Code: ErrCodeReceiverNotFound})
	assert.Equal(t, ErrCodeReceiverNotFound, ErrorCode(wrapped))
}

func TestIsBusinessFailure(t *testing.T) {
	assert.True(t, IsBusinessFailure(&ServiceError{Code: ErrCodeInsufficientFunds}))
	assert.True(t, IsBusinessFailure(&ServiceError{Code: ErrCodeRechargeRejected}))
	assert.False(t, IsBusinessFailure(&ServiceError{Code: ErrCodeAccountNotFound}))
	assert.False(t, IsBusinessFailure(errors.New("boom")))
	assert.False(t, IsBusinessFailure(nil))
}
