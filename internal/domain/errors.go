package domain

import "errors"

// Sentinel errors for the registration engine. Services return these
// unchanged (or wrapped with %w) so callers can map them with errors.Is.
var (
	// Not-found family: the referenced record does not exist.
	ErrEventNotFound         = errors.New("event not found")
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")

	// Conflict family: the request is well-formed but collides with
	// current state.
	ErrDuplicateRegistration    = errors.New("participant is already registered for this event")
	ErrDuplicateParticipantCode = errors.New("a participant with this code already exists")
	ErrEventClosed              = errors.New("event has already taken place and can no longer be changed")

	// Invalid-argument family.
	ErrPastEventTime           = errors.New("event time must be in the future")
	ErrParticipantTypeMismatch = errors.New("participant type does not match the registration")
	ErrInvalidInput            = errors.New("invalid input")

	// ErrIntegrity signals a referential-integrity defect (e.g. a
	// registration whose participant or payment method row is missing).
	// It is a bug indicator, not a user-facing condition.
	ErrIntegrity = errors.New("referential integrity violation")
)
