package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Account state errors
	ErrAccountDisabled = errors.New("account is disabled")
	ErrAccountLocked   = errors.New("account is temporarily locked")

	// Checkout errors
	ErrNotEnoughTickets = errors.New("not enough tickets available")
)

// LockoutError carries how long a login lockout has left. It unwraps to
// ErrAccountLocked so callers can dispatch with errors.Is.
type LockoutError struct {
	Remaining time.Duration
}

func (e *LockoutError) Error() string {
	minutes := int(e.Remaining.Minutes()) + 1
	return fmt.Sprintf("too many attempts, try again in %d min", minutes)
}

func (e *LockoutError) Unwrap() error {
	return ErrAccountLocked
}
