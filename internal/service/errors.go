package service

import "errors"

// Sentinel errors returned by the service layer.  Handlers map these
// to HTTP status codes; callers test them with errors.Is so wrapped
// variants with context still match.
var (
	// ErrValidation covers malformed or out-of-range input: bad dates,
	// unknown payment methods, stays outside the allowed length.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a state-machine violation or a lost race:
	// overlapping bookings, double payment, transitions from a terminal
	// status.
	ErrConflict = errors.New("conflict")

	// ErrForbidden is returned when the acting user does not own the
	// entity the operation targets.
	ErrForbidden = errors.New("forbidden")

	// ErrPaymentFailed is returned when the payment provider declines a
	// charge.  The booking is cancelled as compensation before this is
	// surfaced.
	ErrPaymentFailed = errors.New("payment failed")
)
