package domain

import "errors"

// Sentinel errors for the domain layer. Handlers map these to HTTP
// status codes; the mutation service never retries any of them.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrForbidden    = errors.New("domain: forbidden")
	ErrConflict     = errors.New("domain: conflict")
	ErrInvalidState = errors.New("domain: invalid state")
	ErrInvalidInput = errors.New("domain: invalid input")
)
