// Package ports declares the narrow interfaces the service layer
// depends on.  The repository package provides the production
// implementations; tests substitute in-memory fakes.
package ports

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// RoomStore is the subset of room persistence the services need.
type RoomStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	SetAvailable(ctx context.Context, roomID uint64, available bool) error
}

// BookingStore persists bookings and enforces the no-overlap invariant
// on insert.
type BookingStore interface {
	// CreateActive inserts the booking atomically with respect to
	// concurrent inserts for the same room, re-validating the overlap
	// condition under a room lock.
	CreateActive(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetByReference(ctx context.Context, ref string) (*model.Booking, error)
	FindActiveByRoom(ctx context.Context, roomID uint64) ([]*model.Booking, error)
	HasActiveOverlap(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error)
	// UpdateStatusFrom performs a conditional status transition and
	// reports whether a row actually changed.
	UpdateStatusFrom(ctx context.Context, id uint64, from []model.BookingStatus, to model.BookingStatus) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error)
	ListByHotel(ctx context.Context, hotelID uint64, status model.BookingStatus) ([]*model.Booking, error)
}

// PaymentStore persists payment records keyed by booking reference.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByBookingRef(ctx context.Context, ref string) (*model.Payment, error)
	GetActiveByBookingRef(ctx context.Context, ref string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, paymentID uint64, status model.PaymentStatus, transactionID *string) (bool, error)
}
