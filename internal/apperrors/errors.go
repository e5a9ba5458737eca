// Package apperrors defines the error kinds shared across the storefront
// core. All of them are recoverable at the HTTP boundary; none are fatal to
// the process.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals an unknown product or order id.
	ErrNotFound = errors.New("not found")

	// ErrForbidden signals a role-gated operation attempted without the
	// required role.
	ErrForbidden = errors.New("forbidden")

	// ErrOutOfStock signals an add-to-cart against a product with no stock.
	// The cart is left unchanged.
	ErrOutOfStock = errors.New("product out of stock")

	// ErrOrderCreationFailed signals that order placement failed at the
	// persistence collaborator. The cart is preserved and the caller may
	// retry.
	ErrOrderCreationFailed = errors.New("order creation failed")

	// ErrPlacementInProgress signals a re-entrant place-order call while a
	// previous one is still in flight.
	ErrPlacementInProgress = errors.New("order placement already in progress")
)

// ValidationError carries per-field messages from form-level checks. The
// caller re-renders with the messages; no state changes.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NewValidationErrors wraps a field->message map, returning nil when the map
// is empty so validators can return their collected map directly.
func NewValidationErrors(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
