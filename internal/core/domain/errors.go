package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailure covers both "no such account" and "wrong password";
	// callers must not be able to tell which part failed.
	ErrAuthFailure = errors.New("invalid email or password")

	ErrMissingField    = errors.New("missing required fields")
	ErrInvalidTestType = errors.New("unknown test type")
	ErrNotFound        = errors.New("not found")

	// ErrVerificationFailed means the bot-check token was absent or
	// rejected; nothing was written.
	ErrVerificationFailed = errors.New("verification failed")
)

// StoreError wraps a failure of the backing store. Constraint violations
// are client-caused (duplicate email on signup); everything else is
// infrastructure.
type StoreError struct {
	Constraint bool
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %v", e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(err error) *StoreError {
	return &StoreError{Err: err}
}

func NewConstraintError(err error) *StoreError {
	return &StoreError{Constraint: true, Err: err}
}
