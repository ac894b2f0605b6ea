package model

import "errors"

// Sentinel errors shared by the service and repository layers. Services wrap
// them with a message naming the specific rule broken; handlers match with
// errors.Is to pick the HTTP status.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a status change is not in the
	// transition table (e.g. publishing a cancelled event).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidState is returned when an operation is not legal in the
	// entity's current lifecycle state (e.g. reserving a draft event).
	ErrInvalidState = errors.New("invalid state")

	// ErrForbidden is returned when the caller is not the resource owner
	// and lacks the admin role.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned on duplicate active reservations and
	// duplicate user emails.
	ErrConflict = errors.New("conflict")

	// ErrCapacityExhausted is a business rejection, not a fault: the event
	// is sold out. Kept distinct from ErrInvalidState so callers can render
	// "no places left" instead of a generic error.
	ErrCapacityExhausted = errors.New("no places left")

	// ErrUnauthorized is returned on bad credentials or a missing/invalid
	// access token.
	ErrUnauthorized = errors.New("unauthorized")
)
