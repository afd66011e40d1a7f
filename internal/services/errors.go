package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Handlers map these onto HTTP
// statuses; none of them are fatal to the process.
var (
	// ErrInvalidQuantity is returned when a cart mutation is requested with a
	// quantity below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrPersistence wraps a failed read or write against a backing store.
	// The in-memory view is left untouched when it is returned.
	ErrPersistence = errors.New("persistence failure")

	// ErrPaymentSession is returned when the payment collaborator could not
	// create or confirm a session.
	ErrPaymentSession = errors.New("payment session failure")

	// ErrAuthenticationRequired is returned when a guest attempts an action
	// that needs an account.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrEmptyCart is returned when checkout is entered with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned for illegal checkout or order status
	// transitions.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// ValidationError carries per-field messages for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
