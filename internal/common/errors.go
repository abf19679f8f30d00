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

// Failure taxonomy. Every error crossing a component boundary wraps exactly
// one of these so callers can branch with errors.Is.
var (
	// ErrIO marks local file read failures: skip the file, log, continue.
	ErrIO = errors.New("io error")
	// ErrRemoteRejected marks permanent submission failures (bad auth,
	// malformed parameters). Never retried.
	ErrRemoteRejected = errors.New("remote rejected request")
	// ErrRemoteUnavailable marks transient network/service failures. The
	// polling loop retries these within its budget.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	// ErrTimeout marks a polling deadline (or retry budget) exceeded.
	ErrTimeout = errors.New("polling deadline exceeded")
	// ErrExportExhausted marks that every export strategy failed.
	ErrExportExhausted = errors.New("all export strategies failed")

	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
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
