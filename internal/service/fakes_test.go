package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// In-memory store fakes.  They mirror the transactional behavior of
// the SQL repositories closely enough for lifecycle tests: CreateActive
// re-checks overlaps before inserting, UpdateStatusFrom is conditional.

type fakeRoomStore struct {
	rooms map[uint64]*model.Room
}

func newFakeRoomStore(rooms ...*model.Room) *fakeRoomStore {
	m := make(map[uint64]*model.Room, len(rooms))
	for _, r := range rooms {
		m[r.ID] = r
	}
	return &fakeRoomStore{rooms: m}
}

func (f *fakeRoomStore) GetByID(_ context.Context, id uint64) (*model.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoomStore) SetAvailable(_ context.Context, roomID uint64, available bool) error {
	r, ok := f.rooms[roomID]
	if !ok {
		return repository.ErrRoomNotFound
	}
	r.IsAvailable = available
	return nil
}

type fakeBookingStore struct {
	rooms    *fakeRoomStore
	nextID   uint64
	bookings map[uint64]*model.Booking
}

func newFakeBookingStore(rooms *fakeRoomStore) *fakeBookingStore {
	return &fakeBookingStore{rooms: rooms, bookings: map[uint64]*model.Booking{}}
}

func (f *fakeBookingStore) CreateActive(_ context.Context, b *model.Booking) error {
	room, ok := f.rooms.rooms[b.RoomID]
	if !ok {
		return repository.ErrRoomNotFound
	}
	if !room.IsActive {
		return repository.ErrRoomUnavailable
	}
	for _, ex := range f.bookings {
		if ex.RoomID == b.RoomID && ex.Status.Active() &&
			model.Overlaps(b.CheckIn, b.CheckOut, ex.CheckIn, ex.CheckOut) {
			return repository.ErrRoomUnavailable
		}
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	room.IsAvailable = false
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) GetByReference(_ context.Context, ref string) (*model.Booking, error) {
	for _, b := range f.bookings {
		if b.Reference == ref {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

func (f *fakeBookingStore) FindActiveByRoom(_ context.Context, roomID uint64) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.RoomID == roomID && b.Status.Active() {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) HasActiveOverlap(_ context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	for _, b := range f.bookings {
		if b.RoomID == roomID && b.Status.Active() &&
			model.Overlaps(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingStore) UpdateStatusFrom(_ context.Context, id uint64, from []model.BookingStatus, to model.BookingStatus) (bool, error) {
	b, ok := f.bookings[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			b.UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingStore) ListByUser(_ context.Context, userID uint64) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListByHotel(_ context.Context, hotelID uint64, status model.BookingStatus) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.HotelID == hotelID && (status == "" || b.Status == status) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePaymentStore struct {
	nextID   uint64
	payments map[uint64]*model.Payment
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: map[uint64]*model.Payment{}}
}

func (f *fakePaymentStore) Create(_ context.Context, p *model.Payment) error {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePaymentStore) newestFor(ref string, skipFailed bool) *model.Payment {
	var newest *model.Payment
	for _, p := range f.payments {
		if p.BookingRef != ref {
			continue
		}
		if skipFailed && p.Status == model.PaymentFailed {
			continue
		}
		if newest == nil || p.ID > newest.ID {
			newest = p
		}
	}
	return newest
}

func (f *fakePaymentStore) GetByBookingRef(_ context.Context, ref string) (*model.Payment, error) {
	p := f.newestFor(ref, false)
	if p == nil {
		return nil, repository.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentStore) GetActiveByBookingRef(_ context.Context, ref string) (*model.Payment, error) {
	p := f.newestFor(ref, true)
	if p == nil {
		return nil, repository.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentStore) UpdateStatus(_ context.Context, paymentID uint64, status model.PaymentStatus, transactionID *string) (bool, error) {
	p, ok := f.payments[paymentID]
	if !ok {
		return false, nil
	}
	p.Status = status
	if transactionID != nil {
		v := *transactionID
		p.TransactionID = &v
	}
	p.UpdatedAt = time.Now().UTC()
	return true, nil
}

type fakeProvider struct {
	chargeErr error
	charges   int
	refunds   []string
}

func (f *fakeProvider) Charge(_ context.Context, _ string, _ decimal.Decimal, _ string) (string, error) {
	if f.chargeErr != nil {
		return "", f.chargeErr
	}
	f.charges++
	return fmt.Sprintf("txn_test_%d", f.charges), nil
}

func (f *fakeProvider) Refund(_ context.Context, transactionID string, _ decimal.Decimal) error {
	f.refunds = append(f.refunds, transactionID)
	return nil
}

type fakePublisher struct {
	confirmed []queue.BookingConfirmedEvent
	cancelled []queue.BookingCancelledEvent
}

func (f *fakePublisher) PublishBookingConfirmed(evt queue.BookingConfirmedEvent) {
	f.confirmed = append(f.confirmed, evt)
}

func (f *fakePublisher) PublishBookingCancelled(evt queue.BookingCancelledEvent) {
	f.cancelled = append(f.cancelled, evt)
}
