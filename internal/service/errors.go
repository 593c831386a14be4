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
	ErrCodeInvalidUser        = "invalid_user"
	ErrCodeInvalidAmount      = "invalid_amount"
	ErrCodeInvalidPoints      = "invalid_points"
	ErrCodeInvalidPurchase    = "invalid_purchase"
	ErrCodeCardNotFound       = "card_not_found"
	ErrCodeCardAlreadyExists  = "card_already_exists"
	ErrCodeInsufficientPoints = "insufficient_points"
	ErrCodeInternalError      = "internal_error"
)

// ErrorCode returns the code of the ServiceError in err's chain, or
// ErrCodeInternalError when there is none
func ErrorCode(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ErrCodeInternalError
}

func internalError(message string, err error) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeInternalError,
		Message: message,
		Err:     err,
	}
}
