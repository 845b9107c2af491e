package model

import "errors"

// Sentinel errors shared by every use case; wrap them with context and
// match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalid           = errors.New("invalid input")
	ErrMissingFields     = errors.New("missing required fields")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrBusy              = errors.New("resource busy")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
)
