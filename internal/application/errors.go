package application

import "errors"

// Error taxonomy surfaced by the account and channel services. Handlers map
// these to HTTP statuses; anything unrecognized renders as an internal error.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("already exists")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)
