package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRoom(id uint64) *model.Room {
	return &model.Room{
		ID:          id,
		HotelID:     1,
		RoomNumber:  "101",
		RoomType:    "DOUBLE",
		NightlyRate: decimal.RequireFromString("100.00"),
		IsAvailable: true,
		IsActive:    true,
	}
}

func TestIsAvailableFreeRoom(t *testing.T) {
	rooms := newFakeRoomStore(testRoom(1))
	svc := NewAvailabilityService(rooms, newFakeBookingStore(rooms))

	ok, err := svc.IsAvailable(context.Background(), 1, date(2026, 9, 10), date(2026, 9, 12))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailableUnknownRoom(t *testing.T) {
	rooms := newFakeRoomStore()
	svc := NewAvailabilityService(rooms, newFakeBookingStore(rooms))

	_, err := svc.IsAvailable(context.Background(), 42, date(2026, 9, 10), date(2026, 9, 12))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsAvailableInactiveRoom(t *testing.T) {
	room := testRoom(1)
	room.IsActive = false
	rooms := newFakeRoomStore(room)
	svc := NewAvailabilityService(rooms, newFakeBookingStore(rooms))

	ok, err := svc.IsAvailable(context.Background(), 1, date(2026, 9, 10), date(2026, 9, 12))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAvailableOverlapRules(t *testing.T) {
	rooms := newFakeRoomStore(testRoom(1))
	bookings := newFakeBookingStore(rooms)
	svc := NewAvailabilityService(rooms, bookings)

	existing := &model.Booking{
		Reference: "ref-1",
		UserID:    7,
		HotelID:   1,
		RoomID:    1,
		CheckIn:   date(2026, 9, 10),
		CheckOut:  date(2026, 9, 15),
		Status:    model.BookingConfirmed,
	}
	require.NoError(t, bookings.CreateActive(context.Background(), existing))

	cases := []struct {
		name     string
		in, out  time.Time
		expected bool
	}{
		{"inside", date(2026, 9, 11), date(2026, 9, 13), false},
		{"straddles start", date(2026, 9, 8), date(2026, 9, 11), false},
		{"straddles end", date(2026, 9, 14), date(2026, 9, 17), false},
		{"covers", date(2026, 9, 9), date(2026, 9, 16), false},
		{"back to back before", date(2026, 9, 7), date(2026, 9, 10), true},
		{"back to back after", date(2026, 9, 15), date(2026, 9, 18), true},
		{"clear", date(2026, 9, 20), date(2026, 9, 22), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := svc.IsAvailable(context.Background(), 1, tc.in, tc.out)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ok)
		})
	}
}

func TestIsAvailableIgnoresListingFlag(t *testing.T) {
	// The is_available flag may be stale; availability must come from
	// actual bookings.
	room := testRoom(1)
	room.IsAvailable = false
	rooms := newFakeRoomStore(room)
	svc := NewAvailabilityService(rooms, newFakeBookingStore(rooms))

	ok, err := svc.IsAvailable(context.Background(), 1, date(2026, 9, 10), date(2026, 9, 12))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailableIgnoresTerminalBookings(t *testing.T) {
	rooms := newFakeRoomStore(testRoom(1))
	bookings := newFakeBookingStore(rooms)
	svc := NewAvailabilityService(rooms, bookings)

	b := &model.Booking{
		Reference: "ref-1", UserID: 7, HotelID: 1, RoomID: 1,
		CheckIn: date(2026, 9, 10), CheckOut: date(2026, 9, 15),
		Status: model.BookingPending,
	}
	require.NoError(t, bookings.CreateActive(context.Background(), b))
	_, err := bookings.UpdateStatusFrom(context.Background(), b.ID, model.ActiveBookingStatuses, model.BookingCancelled)
	require.NoError(t, err)

	ok, err := svc.IsAvailable(context.Background(), 1, date(2026, 9, 11), date(2026, 9, 13))
	require.NoError(t, err)
	assert.True(t, ok)
}
