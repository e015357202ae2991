package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

type bookingEnv struct {
	svc       *BookingService
	rooms     *fakeRoomStore
	bookings  *fakeBookingStore
	payments  *fakePaymentStore
	provider  *fakeProvider
	publisher *fakePublisher
}

// newBookingEnv wires a booking service against fakes with the clock
// pinned to 2026-09-01.
func newBookingEnv(t *testing.T, roomList ...*model.Room) *bookingEnv {
	t.Helper()
	if len(roomList) == 0 {
		roomList = []*model.Room{testRoom(1)}
	}
	rooms := newFakeRoomStore(roomList...)
	bookings := newFakeBookingStore(rooms)
	payments := newFakePaymentStore()
	provider := &fakeProvider{}
	publisher := &fakePublisher{}

	pricing := defaultPricing()
	paySvc := NewPaymentService(payments, provider)
	svc := NewBookingService(rooms, bookings, pricing, paySvc, publisher)
	svc.now = func() time.Time { return date(2026, 9, 1) }

	return &bookingEnv{svc: svc, rooms: rooms, bookings: bookings,
		payments: payments, provider: provider, publisher: publisher}
}

func (e *bookingEnv) mustCreate(t *testing.T, userID uint64, in, out time.Time) *model.Booking {
	t.Helper()
	b, err := e.svc.Create(context.Background(), userID, 1, in, out)
	require.NoError(t, err)
	return b
}

func TestCreateBooking(t *testing.T) {
	env := newBookingEnv(t)

	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	assert.Equal(t, model.BookingPending, b.Status)
	assert.NotEmpty(t, b.Reference)
	assert.Equal(t, uint64(1), b.HotelID)
	assert.Equal(t, 2, b.Nights())
	assert.Equal(t, "247.50", b.TotalPrice.StringFixed(2))

	// The room's listing flag clears on create.
	room, err := env.rooms.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, room.IsAvailable)
}

func TestCreateBookingRoundTrip(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	got, err := env.svc.GetForUser(context.Background(), b.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, b.Reference, got.Reference)
	assert.True(t, got.CheckIn.Equal(date(2026, 9, 20)))
	assert.True(t, got.CheckOut.Equal(date(2026, 9, 22)))
	assert.True(t, got.TotalPrice.Equal(b.TotalPrice))
}

func TestCreateBookingValidation(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	// Check-in must be after today (the clock reads 2026-09-01).
	_, err := env.svc.Create(ctx, 7, 1, date(2026, 9, 1), date(2026, 9, 3))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Create(ctx, 7, 1, date(2026, 8, 20), date(2026, 8, 22))
	assert.ErrorIs(t, err, ErrValidation)

	// Zero and negative stays.
	_, err = env.svc.Create(ctx, 7, 1, date(2026, 9, 20), date(2026, 9, 20))
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.svc.Create(ctx, 7, 1, date(2026, 9, 20), date(2026, 9, 18))
	assert.ErrorIs(t, err, ErrValidation)

	// Longer than thirty nights.
	_, err = env.svc.Create(ctx, 7, 1, date(2026, 9, 20), date(2026, 10, 21))
	assert.ErrorIs(t, err, ErrValidation)

	// Thirty nights exactly is fine.
	_, err = env.svc.Create(ctx, 7, 1, date(2026, 9, 20), date(2026, 10, 20))
	assert.NoError(t, err)
}

func TestCreateBookingOverlapConflict(t *testing.T) {
	env := newBookingEnv(t)
	env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 25))

	_, err := env.svc.Create(context.Background(), 8, 1, date(2026, 9, 22), date(2026, 9, 24))
	assert.ErrorIs(t, err, ErrConflict)

	// Back-to-back stays are allowed.
	_, err = env.svc.Create(context.Background(), 8, 1, date(2026, 9, 25), date(2026, 9, 27))
	assert.NoError(t, err)
}

func TestCreateBookingUnknownRoom(t *testing.T) {
	env := newBookingEnv(t)
	_, err := env.svc.Create(context.Background(), 7, 99, date(2026, 9, 20), date(2026, 9, 22))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBookingInactiveRoom(t *testing.T) {
	room := testRoom(1)
	room.IsActive = false
	env := newBookingEnv(t, room)

	_, err := env.svc.Create(context.Background(), 7, 1, date(2026, 9, 20), date(2026, 9, 22))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPayConfirmsBooking(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	got, p, err := env.svc.Pay(context.Background(), b.ID, 7, model.MethodCreditCard)
	require.NoError(t, err)

	assert.Equal(t, model.BookingConfirmed, got.Status)
	assert.Equal(t, model.PaymentCompleted, p.Status)
	assert.Equal(t, "247.50", p.Amount.StringFixed(2))

	require.Len(t, env.publisher.confirmed, 1)
	evt := env.publisher.confirmed[0]
	assert.Equal(t, b.Reference, evt.Reference)
	assert.Equal(t, "247.50", evt.Total)
	assert.Equal(t, "2026-09-20", evt.CheckIn)
}

func TestPayDeclinedCancelsBooking(t *testing.T) {
	env := newBookingEnv(t)
	env.provider.chargeErr = errors.New("card declined")
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	_, _, err := env.svc.Pay(context.Background(), b.ID, 7, model.MethodCreditCard)
	assert.ErrorIs(t, err, ErrPaymentFailed)

	got, err := env.bookings.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)

	// Compensation frees the room for the same dates again.
	env.provider.chargeErr = nil
	_, err = env.svc.Create(context.Background(), 8, 1, date(2026, 9, 20), date(2026, 9, 22))
	assert.NoError(t, err)
}

func TestPayTwiceConflicts(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	_, _, err := env.svc.Pay(context.Background(), b.ID, 7, model.MethodCreditCard)
	require.NoError(t, err)

	_, _, err = env.svc.Pay(context.Background(), b.ID, 7, model.MethodCreditCard)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPayForeignBookingForbidden(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	_, _, err := env.svc.Pay(context.Background(), b.ID, 8, model.MethodCreditCard)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConfirmRequiresCompletedPayment(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	_, err := env.svc.Confirm(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelPendingBooking(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	got, refund, err := env.svc.Cancel(context.Background(), b.ID, 7, false)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)
	assert.Equal(t, "0.00", refund.StringFixed(2))

	// Room listable again once no active booking covers the interval.
	room, err := env.rooms.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, room.IsAvailable)

	require.Len(t, env.publisher.cancelled, 1)
	assert.Equal(t, b.Reference, env.publisher.cancelled[0].Reference)
}

func TestCancelRefundTiers(t *testing.T) {
	cases := []struct {
		name    string
		checkIn time.Time
		refund  string
	}{
		{"ten days out full refund", date(2026, 9, 11), "247.50"},
		{"five days out half refund", date(2026, 9, 6), "123.75"},
		{"one day out no refund", date(2026, 9, 2), "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newBookingEnv(t)
			b := env.mustCreate(t, 7, tc.checkIn, tc.checkIn.AddDate(0, 0, 2))
			_, _, err := env.svc.Pay(context.Background(), b.ID, 7, model.MethodCreditCard)
			require.NoError(t, err)

			_, refund, err := env.svc.Cancel(context.Background(), b.ID, 7, false)
			require.NoError(t, err)
			assert.Equal(t, tc.refund, refund.StringFixed(2))

			require.Len(t, env.publisher.cancelled, 1)
			assert.Equal(t, tc.refund, env.publisher.cancelled[0].Refund)
		})
	}
}

func TestCancelWithUnsettledPaymentStillReleasesRoom(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	err := env.payments.Create(context.Background(), &model.Payment{
		BookingRef: b.Reference,
		Amount:     b.TotalPrice,
		Method:     model.MethodCreditCard,
		Status:     model.PaymentPending,
	})
	require.NoError(t, err)

	// The refund side conflicts on the in-flight charge, but the
	// cancellation itself stands: room released, event emitted.
	_, _, err = env.svc.Cancel(context.Background(), b.ID, 7, false)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := env.bookings.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)

	room, err := env.rooms.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, room.IsAvailable)

	require.Len(t, env.publisher.cancelled, 1)
	assert.Equal(t, "0.00", env.publisher.cancelled[0].Refund)
}

func TestCancelIsNotIdempotent(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	_, _, err := env.svc.Cancel(context.Background(), b.ID, 7, false)
	require.NoError(t, err)

	// A second cancel is a state conflict, so a racing duplicate can
	// never trigger a second refund.
	_, _, err = env.svc.Cancel(context.Background(), b.ID, 7, false)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelForeignBookingForbidden(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	_, _, err := env.svc.Cancel(context.Background(), b.ID, 8, false)
	assert.ErrorIs(t, err, ErrForbidden)

	// A manager acting on the hotel's behalf may cancel it.
	_, _, err = env.svc.Cancel(context.Background(), b.ID, 99, true)
	assert.NoError(t, err)
}

func TestCompleteBooking(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))
	_, _, err := env.svc.Pay(context.Background(), b.ID, 7, model.MethodCreditCard)
	require.NoError(t, err)

	// Before check-out without force: conflict.
	_, err = env.svc.Complete(context.Background(), b.ID, false)
	assert.ErrorIs(t, err, ErrConflict)

	// Force override works.
	got, err := env.svc.Complete(context.Background(), b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCompleted, got.Status)

	// Completed is terminal.
	_, err = env.svc.Complete(context.Background(), b.ID, true)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCompleteAfterCheckout(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))
	_, _, err := env.svc.Pay(context.Background(), b.ID, 7, model.MethodCreditCard)
	require.NoError(t, err)

	env.svc.now = func() time.Time { return date(2026, 9, 22) }
	got, err := env.svc.Complete(context.Background(), b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCompleted, got.Status)
}

func TestCompletePendingBookingConflicts(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	_, err := env.svc.Complete(context.Background(), b.ID, true)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestQuoteStay(t *testing.T) {
	env := newBookingEnv(t)

	q, err := env.svc.QuoteStay(context.Background(), 1, date(2026, 9, 20), date(2026, 9, 22))
	require.NoError(t, err)
	assert.Equal(t, "247.50", q.Total.StringFixed(2))

	_, err = env.svc.QuoteStay(context.Background(), 99, date(2026, 9, 20), date(2026, 9, 22))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForHotelFiltersByStatus(t *testing.T) {
	env := newBookingEnv(t)
	b1 := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))
	env.mustCreate(t, 8, date(2026, 9, 25), date(2026, 9, 27))
	_, _, err := env.svc.Cancel(context.Background(), b1.ID, 7, false)
	require.NoError(t, err)

	all, err := env.svc.ListForHotel(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cancelled, err := env.svc.ListForHotel(context.Background(), 1, model.BookingCancelled)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, b1.Reference, cancelled[0].Reference)
}

func TestGetByReferenceForUser(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	got, err := env.svc.GetByReferenceForUser(context.Background(), b.Reference, 7)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = env.svc.GetByReferenceForUser(context.Background(), b.Reference, 8)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.GetByReferenceForUser(context.Background(), "no-such-ref", 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListActiveForRoom(t *testing.T) {
	env := newBookingEnv(t)
	b1 := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))
	b2 := env.mustCreate(t, 8, date(2026, 9, 25), date(2026, 9, 27))
	_, _, err := env.svc.Cancel(context.Background(), b1.ID, 7, false)
	require.NoError(t, err)

	// Only the active booking remains in the occupancy view.
	list, err := env.svc.ListActiveForRoom(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b2.Reference, list[0].Reference)

	// Addressing the room through the wrong hotel reads as not found.
	_, err = env.svc.ListActiveForRoom(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.ListActiveForRoom(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetForHotel(t *testing.T) {
	env := newBookingEnv(t)
	b := env.mustCreate(t, 7, date(2026, 9, 20), date(2026, 9, 22))

	got, err := env.svc.GetForHotel(context.Background(), b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, b.Reference, got.Reference)

	_, err = env.svc.GetForHotel(context.Background(), b.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
