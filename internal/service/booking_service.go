package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/iliyamo/hotel-room-booking/internal/service/ports"
)

// Stay length bounds enforced at creation.
const (
	minNights = 1
	maxNights = 30
)

// BookingService owns the booking lifecycle: creation, payment,
// confirmation, cancellation and completion.  Status transitions go
// through conditional updates in the store so concurrent calls cannot
// double-apply a transition.
type BookingService struct {
	rooms     ports.RoomStore
	bookings  ports.BookingStore
	pricing   *PricingService
	payments  *PaymentService
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewBookingService wires a booking service.  publisher may be nil,
// in which case lifecycle events are not emitted.
func NewBookingService(
	rooms ports.RoomStore,
	bookings ports.BookingStore,
	pricing *PricingService,
	payments *PaymentService,
	publisher ports.EventPublisher,
) *BookingService {
	return &BookingService{
		rooms:     rooms,
		bookings:  bookings,
		pricing:   pricing,
		payments:  payments,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// validateStay normalizes the requested dates to UTC midnight and
// checks the booking window: check-in must be at least tomorrow and
// the stay must run between one and thirty nights.
func (s *BookingService) validateStay(checkIn, checkOut time.Time) (time.Time, time.Time, error) {
	in := model.DateOnly(checkIn)
	out := model.DateOnly(checkOut)
	today := model.DateOnly(s.now())
	if !in.After(today) {
		return in, out, fmt.Errorf("%w: check-in must be a future date", ErrValidation)
	}
	nights := model.Nights(in, out)
	if nights < minNights || nights > maxNights {
		return in, out, fmt.Errorf("%w: stay must be between %d and %d nights", ErrValidation, minNights, maxNights)
	}
	return in, out, nil
}

// QuoteStay prices a prospective stay without creating anything.
func (s *BookingService) QuoteStay(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (Quote, error) {
	in, out, err := s.validateStay(checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return Quote{}, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
		}
		return Quote{}, err
	}
	return s.pricing.Quote(room.NightlyRate, model.Nights(in, out)), nil
}

// Create reserves a room for the half-open range [checkIn, checkOut)
// and returns the new PENDING booking.  The store performs the
// authoritative overlap check under a room lock, so two concurrent
// creates for the same dates cannot both succeed; the loser gets
// ErrConflict.
func (s *BookingService) Create(ctx context.Context, userID, roomID uint64, checkIn, checkOut time.Time) (*model.Booking, error) {
	in, out, err := s.validateStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
		}
		return nil, err
	}
	if !room.IsActive {
		return nil, fmt.Errorf("%w: room %d is not bookable", ErrConflict, roomID)
	}

	quote := s.pricing.Quote(room.NightlyRate, model.Nights(in, out))
	b := &model.Booking{
		Reference:  uuid.NewString(),
		UserID:     userID,
		HotelID:    room.HotelID,
		RoomID:     roomID,
		CheckIn:    in,
		CheckOut:   out,
		TotalPrice: quote.Total,
		Status:     model.BookingPending,
	}
	if err := s.bookings.CreateActive(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomUnavailable):
			return nil, fmt.Errorf("%w: room %d is not available for the requested dates", ErrConflict, roomID)
		case errors.Is(err, repository.ErrRoomNotFound):
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
		}
		return nil, err
	}
	return b, nil
}

// Pay charges a PENDING booking's total and confirms it on success.
// When the provider declines, the booking is cancelled as compensation
// and ErrPaymentFailed is returned so the room frees up immediately
// instead of staying blocked by an unpayable reservation.
func (s *BookingService) Pay(ctx context.Context, bookingID, userID uint64, method model.PaymentMethod) (*model.Booking, *model.Payment, error) {
	b, err := s.getOwned(ctx, bookingID, userID)
	if err != nil {
		return nil, nil, err
	}
	if b.Status != model.BookingPending {
		return nil, nil, fmt.Errorf("%w: booking %s is %s, expected PENDING", ErrConflict, b.Reference, b.Status)
	}

	p, err := s.payments.Charge(ctx, b, method)
	if err != nil {
		if errors.Is(err, ErrPaymentFailed) {
			if cErr := s.compensateFailedPayment(ctx, b); cErr != nil {
				log.Printf("booking: compensating cancel of %s failed: %v", b.Reference, cErr)
			}
		}
		return nil, nil, err
	}

	ok, err := s.bookings.UpdateStatusFrom(ctx, b.ID, []model.BookingStatus{model.BookingPending}, model.BookingConfirmed)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		// The booking moved out of PENDING while the charge was in
		// flight (e.g. a concurrent cancel).  The payment stands; the
		// caller sees the conflict and can request a refund.
		return nil, nil, fmt.Errorf("%w: booking %s changed state during payment", ErrConflict, b.Reference)
	}
	b.Status = model.BookingConfirmed

	s.publishConfirmed(b)
	return b, p, nil
}

// compensateFailedPayment cancels a booking whose charge was declined
// and releases the room's listing flag.
func (s *BookingService) compensateFailedPayment(ctx context.Context, b *model.Booking) error {
	ok, err := s.bookings.UpdateStatusFrom(ctx, b.ID, []model.BookingStatus{model.BookingPending}, model.BookingCancelled)
	if err != nil {
		return err
	}
	if ok {
		b.Status = model.BookingCancelled
		s.releaseRoom(ctx, b)
	}
	return nil
}

// Confirm moves a PENDING booking to CONFIRMED.  It requires a settled
// payment; confirming an unpaid booking is a conflict.
func (s *BookingService) Confirm(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	p, err := s.payments.CompletedFor(ctx, b.Reference)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: booking %s has no completed payment", ErrConflict, b.Reference)
	}
	ok, err := s.bookings.UpdateStatusFrom(ctx, b.ID, []model.BookingStatus{model.BookingPending}, model.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: booking %s is %s, expected PENDING", ErrConflict, b.Reference, b.Status)
	}
	b.Status = model.BookingConfirmed
	s.publishConfirmed(b)
	return b, nil
}

// Cancel cancels an active booking on behalf of actorID.  Customers
// may cancel their own bookings; managers may cancel any booking in
// their hotels (the handler checks hotel ownership and sets manager).
// Cancelling a booking that is already terminal is a conflict, which
// also makes concurrent duplicate cancels safe.  The refund, if any,
// follows the time-based policy and is returned to the caller.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actorID uint64, manager bool) (*model.Booking, decimal.Decimal, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if !manager && b.UserID != actorID {
		return nil, decimal.Zero, fmt.Errorf("%w: booking %s belongs to another user", ErrForbidden, b.Reference)
	}

	ok, err := s.bookings.UpdateStatusFrom(ctx, b.ID, model.ActiveBookingStatuses, model.BookingCancelled)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if !ok {
		return nil, decimal.Zero, fmt.Errorf("%w: booking %s is %s and cannot be cancelled", ErrConflict, b.Reference, b.Status)
	}
	b.Status = model.BookingCancelled

	// The cancellation stands regardless of how the refund goes, so
	// the room is released and the event emitted either way; a refund
	// failure is surfaced to the caller after that.
	refund, refundErr := s.payments.RefundForCancellation(ctx, b, s.now())
	if refundErr != nil {
		refund = decimal.Zero.Round(2)
	}
	s.releaseRoom(ctx, b)
	s.publishCancelled(b, refund)
	if refundErr != nil {
		return b, decimal.Zero, refundErr
	}
	return b, refund, nil
}

// Complete marks a CONFIRMED booking COMPLETED after the guest checks
// out.  Normally the check-out date must have passed; force lets a
// manager close out a stay early.
func (s *BookingService) Complete(ctx context.Context, bookingID uint64, force bool) (*model.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingConfirmed {
		return nil, fmt.Errorf("%w: booking %s is %s, expected CONFIRMED", ErrConflict, b.Reference, b.Status)
	}
	if !force && model.DateOnly(s.now()).Before(b.CheckOut) {
		return nil, fmt.Errorf("%w: booking %s has not reached its check-out date", ErrConflict, b.Reference)
	}
	ok, err := s.bookings.UpdateStatusFrom(ctx, b.ID, []model.BookingStatus{model.BookingConfirmed}, model.BookingCompleted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: booking %s changed state", ErrConflict, b.Reference)
	}
	b.Status = model.BookingCompleted
	s.releaseRoom(ctx, b)
	return b, nil
}

// GetForUser returns a booking if it belongs to the user.
func (s *BookingService) GetForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	return s.getOwned(ctx, bookingID, userID)
}

// GetByReferenceForUser looks a booking up by the public reference a
// customer holds from their confirmation.
func (s *BookingService) GetByReferenceForUser(ctx context.Context, ref string, userID uint64) (*model.Booking, error) {
	b, err := s.bookings.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, ref)
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, fmt.Errorf("%w: booking %s belongs to another user", ErrForbidden, ref)
	}
	return b, nil
}

// GetForHotel returns a booking if it belongs to the given hotel.
// Managers address bookings through their hotel, so a booking from a
// different hotel reads as not found rather than forbidden.
func (s *BookingService) GetForHotel(ctx context.Context, bookingID, hotelID uint64) (*model.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.HotelID != hotelID {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	return b, nil
}

// ListForUser returns the user's bookings, newest first.
func (s *BookingService) ListForUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// ListForHotel returns a hotel's bookings, optionally filtered by
// status.  Hotel ownership is the caller's responsibility.
func (s *BookingService) ListForHotel(ctx context.Context, hotelID uint64, status model.BookingStatus) ([]*model.Booking, error) {
	return s.bookings.ListByHotel(ctx, hotelID, status)
}

// ListActiveForRoom returns a room's PENDING and CONFIRMED bookings,
// the occupancy view for a single room.  A room outside the hotel
// reads as not found.
func (s *BookingService) ListActiveForRoom(ctx context.Context, roomID, hotelID uint64) ([]*model.Booking, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
		}
		return nil, err
	}
	if room.HotelID != hotelID {
		return nil, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
	}
	return s.bookings.FindActiveByRoom(ctx, roomID)
}

func (s *BookingService) get(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		}
		return nil, err
	}
	return b, nil
}

func (s *BookingService) getOwned(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, fmt.Errorf("%w: booking %s belongs to another user", ErrForbidden, b.Reference)
	}
	return b, nil
}

// releaseRoom recomputes the room's listing flag after a booking
// leaves the active set.  The room becomes listable again when no
// remaining active booking covers the freed interval.  Failures are
// logged only; the flag is a hint and self-corrects on later writes.
func (s *BookingService) releaseRoom(ctx context.Context, b *model.Booking) {
	overlap, err := s.bookings.HasActiveOverlap(ctx, b.RoomID, b.CheckIn, b.CheckOut)
	if err != nil {
		log.Printf("booking: availability recompute for room %d: %v", b.RoomID, err)
		return
	}
	if !overlap {
		if err := s.rooms.SetAvailable(ctx, b.RoomID, true); err != nil {
			log.Printf("booking: release room %d: %v", b.RoomID, err)
		}
	}
}

const eventDateLayout = "2006-01-02"

func (s *BookingService) publishConfirmed(b *model.Booking) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishBookingConfirmed(queue.BookingConfirmedEvent{
		Reference: b.Reference,
		UserID:    b.UserID,
		HotelID:   b.HotelID,
		RoomID:    b.RoomID,
		CheckIn:   b.CheckIn.Format(eventDateLayout),
		CheckOut:  b.CheckOut.Format(eventDateLayout),
		Total:     b.TotalPrice.StringFixed(2),
	})
}

func (s *BookingService) publishCancelled(b *model.Booking, refund decimal.Decimal) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishBookingCancelled(queue.BookingCancelledEvent{
		Reference: b.Reference,
		UserID:    b.UserID,
		HotelID:   b.HotelID,
		RoomID:    b.RoomID,
		CheckIn:   b.CheckIn.Format(eventDateLayout),
		CheckOut:  b.CheckOut.Format(eventDateLayout),
		Refund:    refund.StringFixed(2),
	})
}
