package domain

import "errors"

// Domain errors. Services wrap them with context (fmt.Errorf("%w: ...")); callers match with errors.Is.
var (
	// ErrNotFound covers both absent rows and rows owned by another tenant.
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidState        = errors.New("operation not allowed in current state")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("conflict with an existing resource")

	// Transport-level errors (HTTP adapter only).
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access denied")
)
