package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Room represents a bookable room inside a hotel.  The combination of
// (HotelID, RoomNumber) is unique.  NightlyRate is a fixed-point decimal;
// money never travels through float64 in this codebase.
//
// IsAvailable is a fast-reject hint for listings only: a room with
// several disjoint future bookings cannot be described by one boolean, so
// the authoritative availability answer always comes from the overlap
// query over active bookings.  IsActive is the administrative switch;
// an inactive room is never bookable regardless of bookings.
type Room struct {
	ID           uint64          // rooms.id
	HotelID      uint64          // rooms.hotel_id
	RoomNumber   string          // rooms.room_number (unique per hotel)
	RoomType     string          // rooms.room_type (e.g. SINGLE, DOUBLE, SUITE)
	NightlyRate  decimal.Decimal // rooms.nightly_rate DECIMAL(10,2)
	MaxOccupancy int             // rooms.max_occupancy
	IsAvailable  bool            // rooms.is_available (fast-reject hint, not authoritative)
	IsActive     bool            // rooms.is_active (administrative enable/disable)
	CreatedAt    time.Time       // rooms.created_at
	UpdatedAt    time.Time       // rooms.updated_at
}
