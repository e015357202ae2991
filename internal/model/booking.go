package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus enumerates the booking state machine.  PENDING is the
// initial state assigned at creation; CANCELLED and COMPLETED are
// terminal.  Valid transitions:
//
//	PENDING   -> CONFIRMED (payment completed)
//	PENDING   -> CANCELLED
//	CONFIRMED -> CANCELLED
//	CONFIRMED -> COMPLETED (check-out)
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// ActiveBookingStatuses are the statuses that hold a room: they count
// toward overlap conflicts and block other bookings on the same dates.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// Active reports whether the status still holds the room.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// Booking records a user's stay in a room over a half-open date range
// [CheckIn, CheckOut).  Reference is the externally visible identifier
// used by payments; it is stable and independent of the numeric ID.
type Booking struct {
	ID         uint64          // bookings.id
	Reference  string          // bookings.reference (uuid, unique)
	UserID     uint64          // bookings.user_id
	HotelID    uint64          // bookings.hotel_id
	RoomID     uint64          // bookings.room_id
	CheckIn    time.Time       // bookings.check_in, date at UTC midnight, inclusive
	CheckOut   time.Time       // bookings.check_out, date at UTC midnight, exclusive
	TotalPrice decimal.Decimal // bookings.total_price DECIMAL(10,2)
	Status     BookingStatus   // bookings.status
	CreatedAt  time.Time       // bookings.created_at
	UpdatedAt  time.Time       // bookings.updated_at
}

// Nights returns the number of nights of the stay.
func (b *Booking) Nights() int {
	return Nights(b.CheckIn, b.CheckOut)
}

// Overlaps reports whether the booking's date range intersects the
// half-open range [checkIn, checkOut).
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut)
}

// Nights counts the nights between two dates.  Both arguments are
// expected to be dates at UTC midnight; the result is negative when
// checkOut precedes checkIn.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// Overlaps implements the standard half-open interval test
// (a.start < b.end && b.start < a.end).  Half-open ranges make adjacent
// stays compatible: a check-out on the same day as another booking's
// check-in is not a conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DateOnly truncates a timestamp to its UTC calendar date at midnight.
// All booking date comparisons run on values normalized this way.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
