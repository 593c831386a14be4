package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		err  *ServiceError
		name string
		want string
	}{
		{
			name: "message only",
			err:  &ServiceError{Code: ErrCodeCardNotFound, Message: "loyalty card not found"},
			want: "loyalty card not found",
		},
		{
			name: "wrapped error",
			err:  &ServiceError{Code: ErrCodeInternalError, Message: "failed to add points", Err: errors.New("connection reset")},
			want: "failed to add points: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := internalError("failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("accrual: %w", &ServiceError{Code: ErrCodeInsufficientPoints})
	assert.Equal(t, ErrCodeInsufficientPoints, ErrorCode(wrapped))
	assert.Equal(t, ErrCodeInternalError, ErrorCode(errors.New("plain")))
}
