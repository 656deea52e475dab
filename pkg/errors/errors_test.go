package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("product", "p-1")

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "product")
	assert.Contains(t, err.Message, "p-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("quantity must be at least 1")

	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNotReady(t *testing.T) {
	err := NotReady("store is hydrating")

	assert.Equal(t, "NOT_READY", err.Code)
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestPaymentFailed(t *testing.T) {
	err := PaymentFailed("gateway declined the transaction")

	assert.Equal(t, "PAYMENT_FAILED", err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.ErrorIs(t, err, ErrPaymentFailed)
}

func TestAppError_ErrorString(t *testing.T) {
	err := &AppError{Code: "X", Message: "boom"}
	assert.Equal(t, "X: boom", err.Error())

	wrapped := &AppError{Code: "X", Message: "boom", Err: errors.New("cause")}
	assert.Equal(t, "X: boom: cause", wrapped.Error())
}

func TestWrap(t *testing.T) {
	base := errors.New("base")
	err := Wrap(base, "loading snapshot")

	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "loading snapshot")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotReady, http.StatusServiceUnavailable},
		{ErrServiceUnavail, http.StatusServiceUnavailable},
		{ErrPaymentFailed, http.StatusUnprocessableEntity},
		{errors.New("unknown"), http.StatusInternalServerError},
		{NotFound("order", "o-1"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", ErrInvalidInput), http.StatusBadRequest},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), "error: %v", tt.err)
	}
}
