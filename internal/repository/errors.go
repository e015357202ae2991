// Package repository contains data access logic separated from HTTP
// handlers and services.  This file defines sentinel error values that
// are reused across multiple repositories.  Higher layers branch on
// them with errors.Is to distinguish failure scenarios without string
// matching.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as a status transition from an invalid source
// state.  Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrRoomUnavailable is returned by BookingRepo.CreateActive when the
// in-transaction overlap re-check finds another active booking on the
// requested dates.  Of two concurrent overlapping creates, exactly one
// receives this error.
var ErrRoomUnavailable = errors.New("room unavailable for requested dates")

// Not-found sentinels, one per aggregate.
var (
	ErrHotelNotFound   = errors.New("hotel not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

// ErrDuplicateRoom is returned when inserting a room whose
// (hotel_id, room_number) pair already exists.
var ErrDuplicateRoom = errors.New("room number already exists in hotel")

// ErrEmailExists is returned when registering an email that is already
// taken.
var ErrEmailExists = errors.New("email already exists")
