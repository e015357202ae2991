package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/iliyamo/hotel-room-booking/internal/service/ports"
)

// AvailabilityService answers whether a room can host a stay.  The
// answer is advisory: booking creation re-runs the same overlap check
// under a row lock, so a stale read here can never corrupt state.
type AvailabilityService struct {
	rooms    ports.RoomStore
	bookings ports.BookingStore
}

// NewAvailabilityService wires an availability service.
func NewAvailabilityService(rooms ports.RoomStore, bookings ports.BookingStore) *AvailabilityService {
	return &AvailabilityService{rooms: rooms, bookings: bookings}
}

// IsAvailable reports whether the room exists, is administratively
// active, and has no PENDING or CONFIRMED booking overlapping the
// half-open range [checkIn, checkOut).  The room's is_available flag
// is deliberately not consulted; it is a listing hint, not truth.
func (s *AvailabilityService) IsAvailable(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return false, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
		}
		return false, err
	}
	if !room.IsActive {
		return false, nil
	}
	overlap, err := s.bookings.HasActiveOverlap(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}
