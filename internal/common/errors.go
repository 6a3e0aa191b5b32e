// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Detection outcomes. ErrNoMatch is the expected result for most inbound
	// text and is never logged above debug level.
	ErrNoMatch           = errors.New("no transaction detected")
	ErrMalformedIntent   = errors.New("malformed oracle intent")
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// Pending review errors.
	ErrPendingNotFound = errors.New("pending transaction not found")
	ErrAlreadyResolved = errors.New("pending transaction already resolved")

	// Storage errors.
	ErrPersistenceFailure = errors.New("persistence failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrPersistenceFailure) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
