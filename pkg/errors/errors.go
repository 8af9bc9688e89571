package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrUnsupportedPayFrequency = errors.New("unsupported pay frequency")
	ErrActiveLoanExists        = errors.New("employee already has an active loan")
	ErrInvalidPrincipal        = errors.New("principal amount must be positive")
	ErrInvalidInterestRate     = errors.New("annual interest rate must be between 0 and 1")
	ErrInvalidLoanTerm         = errors.New("loan term in months must be positive")
	ErrCalculationDegenerate   = errors.New("payment calculation is degenerate for the given inputs")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeUnsupportedPayFrequency = "UNSUPPORTED_PAY_FREQUENCY"
	ErrCodeActiveLoanExists        = "ACTIVE_LOAN_EXISTS"
	ErrCodeInvalidInput            = "INVALID_INPUT"
	ErrCodeCalculationDegenerate   = "CALCULATION_DEGENERATE"
	ErrCodeDatabaseError           = "DATABASE_ERROR"
	ErrCodeCacheError              = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapUnsupportedPayFrequency(frequency string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnsupportedPayFrequency,
		fmt.Sprintf("Unsupported pay frequency %q. Supported frequencies are: weekly, bi-weekly, semi-monthly, monthly", frequency),
		ErrUnsupportedPayFrequency,
	)
}

func WrapActiveLoanExists(employeeID string) *BusinessError {
	return NewBusinessError(
		ErrCodeActiveLoanExists,
		fmt.Sprintf("Employee %s already has an active loan. Cannot take out another loan", employeeID),
		ErrActiveLoanExists,
	)
}

func WrapInvalidInput(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInput,
		"invalid loan parameters",
		err,
	)
}

func WrapCalculationDegenerate(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCalculationDegenerate,
		"payment formula produced no usable result",
		err,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
