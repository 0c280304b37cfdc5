package services

import "errors"

// Service-level failure taxonomy. Handlers translate these into HTTP
// status codes; anything else surfaces as a generic storage failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrOutOfStock   = errors.New("insufficient stock")
)
