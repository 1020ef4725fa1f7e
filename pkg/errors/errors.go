package errors

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors
var (
	ErrCreditNotFound         = errors.New("credit not found")
	ErrCreditAlreadyExists    = errors.New("credit already exists")
	ErrNoApplicableRate       = errors.New("no applicable rate entry")
	ErrInvalidTermOrPrincipal = errors.New("term and principal must be positive")
	ErrInvalidPaymentDay      = errors.New("payment day must be between 1 and 31")
	ErrRateTimelineUnsorted   = errors.New("rate timeline must be sorted ascending by effective date")
	ErrInvalidPaymentHistory  = errors.New("payment history is inconsistent with credit terms")
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
	ErrCodeCreditNotFound         = "CREDIT_NOT_FOUND"
	ErrCodeCreditAlreadyExists    = "CREDIT_ALREADY_EXISTS"
	ErrCodeNoApplicableRate       = "NO_APPLICABLE_RATE"
	ErrCodeInvalidTermOrPrincipal = "INVALID_TERM_OR_PRINCIPAL"
	ErrCodeInvalidPaymentDay      = "INVALID_PAYMENT_DAY"
	ErrCodeInvalidPaymentHistory  = "INVALID_PAYMENT_HISTORY"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapCreditNotFound(creditID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCreditNotFound,
		fmt.Sprintf("credit with ID %s not found", creditID),
		ErrCreditNotFound,
	)
}

func WrapCreditAlreadyExists(creditID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCreditAlreadyExists,
		fmt.Sprintf("credit with ID %s already exists", creditID),
		ErrCreditAlreadyExists,
	)
}

// WrapNoApplicableRate signals that no rate entry exists at or before date.
// The engine never falls back to a silent 0% rate.
func WrapNoApplicableRate(date time.Time) *BusinessError {
	return NewBusinessError(
		ErrCodeNoApplicableRate,
		fmt.Sprintf("no rate entry in force at %s", date.Format("2006-01-02")),
		ErrNoApplicableRate,
	)
}

func WrapInvalidTermOrPrincipal(termMonths int, principal string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTermOrPrincipal,
		fmt.Sprintf("invalid credit terms: termMonths=%d principal=%s", termMonths, principal),
		ErrInvalidTermOrPrincipal,
	)
}

func WrapInvalidPaymentDay(day int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentDay,
		fmt.Sprintf("invalid payment day %d", day),
		ErrInvalidPaymentDay,
	)
}

func WrapInvalidPaymentHistory(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentHistory,
		reason,
		ErrInvalidPaymentHistory,
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
