package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Ingestion error taxonomy. Every fatal pipeline failure wraps exactly one of
// these sentinels so callers can classify without string matching.
var (
	// ErrUnreadableDocument: extraction yielded too little text
	// (image-only or corrupt document). Fatal, no retry implied.
	ErrUnreadableDocument = errors.New("unreadable document")

	// ErrMissingRequiredField: the invoice number is absent from the header.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvariantViolation: a quantity cross-check failed while parsing a
	// daily record. The whole document is rejected.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrPersistenceFailure: the store rejected a write; nothing from the
	// batch is committed.
	ErrPersistenceFailure = errors.New("persistence failure")

	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// InvariantViolationError carries enough context to diagnose a rejected daily
// record without re-running extraction.
type InvariantViolationError struct {
	InvoiceNumber string
	WorkingDay    string
	OperatorID    string
	Tour          string
	ServiceGroup  string
	Line          string
	Detail        string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: invoice=%s day=%s operator=%s tour=%s group=%s: %s (line %q)",
		e.InvoiceNumber, e.WorkingDay, e.OperatorID, e.Tour, e.ServiceGroup, e.Detail, e.Line)
}

func (e *InvariantViolationError) Unwrap() error {
	return ErrInvariantViolation
}
