package services

import "errors"

// Failure taxonomy surfaced to handlers. Anything not wrapped in one of
// these is an internal fault.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")
)
