package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// Invitation validation failures. All are recoverable and user-facing.
	ErrExpired          = errors.New("invitation expired")
	ErrAlreadyCompleted = errors.New("invitation already completed")
	ErrUsageExceeded    = errors.New("invitation usage limit reached")
	ErrAlreadySubmitted = errors.New("feedback already submitted from this device")
	ErrInvalidMethod    = errors.New("unknown invitation method")
	ErrMissingRecipient = errors.New("recipient email is required")

	// Recording failures.
	ErrScoring     = errors.New("scoring failed")
	ErrPersistence = errors.New("store write failed")
)
