package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/iliyamo/hotel-room-booking/internal/service/ports"
)

// PaymentService records payments against bookings and talks to the
// external charge provider.  It enforces the invariant that a booking
// has at most one payment that is not FAILED.
type PaymentService struct {
	payments ports.PaymentStore
	provider ports.ChargeProvider
}

// NewPaymentService wires a payment service.
func NewPaymentService(payments ports.PaymentStore, provider ports.ChargeProvider) *PaymentService {
	return &PaymentService{payments: payments, provider: provider}
}

// Charge attempts to collect a booking's total price.  It records a
// PENDING payment, calls the provider, and settles the record to
// COMPLETED (with the provider transaction id) or FAILED.  A second
// charge against a booking that already has a non-FAILED payment is
// rejected with ErrConflict; FAILED attempts may be retried.
func (s *PaymentService) Charge(ctx context.Context, b *model.Booking, method model.PaymentMethod) (*model.Payment, error) {
	if !model.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}

	if _, err := s.payments.GetActiveByBookingRef(ctx, b.Reference); err == nil {
		return nil, fmt.Errorf("%w: booking %s already has a payment", ErrConflict, b.Reference)
	} else if !errors.Is(err, repository.ErrPaymentNotFound) {
		return nil, err
	}

	p := &model.Payment{
		BookingRef: b.Reference,
		Amount:     b.TotalPrice,
		Method:     method,
		Status:     model.PaymentPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	txnID, err := s.provider.Charge(ctx, b.Reference, b.TotalPrice, string(method))
	if err != nil {
		if _, uerr := s.payments.UpdateStatus(ctx, p.ID, model.PaymentFailed, nil); uerr != nil {
			log.Printf("payment: failed to mark payment %d FAILED: %v", p.ID, uerr)
		}
		p.Status = model.PaymentFailed
		return p, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	if _, err := s.payments.UpdateStatus(ctx, p.ID, model.PaymentCompleted, &txnID); err != nil {
		return nil, err
	}
	p.Status = model.PaymentCompleted
	p.TransactionID = &txnID
	return p, nil
}

// PaymentFor returns the booking's current payment (the newest one
// that has not FAILED), or nil when none exists.
func (s *PaymentService) PaymentFor(ctx context.Context, bookingRef string) (*model.Payment, error) {
	p, err := s.payments.GetActiveByBookingRef(ctx, bookingRef)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// CompletedFor returns the booking's COMPLETED payment, or nil when
// the booking has no settled payment.
func (s *PaymentService) CompletedFor(ctx context.Context, bookingRef string) (*model.Payment, error) {
	p, err := s.payments.GetActiveByBookingRef(ctx, bookingRef)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if p.Status != model.PaymentCompleted {
		return nil, nil
	}
	return p, nil
}

// RefundAmount applies the cancellation refund policy: a full refund
// at seven or more days before check-in, half between three and six
// days, nothing closer than that.  Distance is counted in whole UTC
// calendar days.
func RefundAmount(paid decimal.Decimal, checkIn, at time.Time) decimal.Decimal {
	days := int(model.DateOnly(checkIn).Sub(model.DateOnly(at)).Hours() / 24)
	switch {
	case days >= 7:
		return paid
	case days >= 3:
		return paid.Div(decimal.NewFromInt(2)).Round(2)
	default:
		return decimal.Zero.Round(2)
	}
}

// refundablePayment resolves which payment, if any, a refund may act
// on.  Only COMPLETED is refundable.  PENDING (charge still in flight)
// and FAILED payments cannot be refunded and are conflicts; already
// REFUNDED payments and bookings never charged resolve to nil.
func (s *PaymentService) refundablePayment(ctx context.Context, bookingRef string) (*model.Payment, error) {
	p, err := s.payments.GetActiveByBookingRef(ctx, bookingRef)
	if err != nil {
		if !errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, err
		}
		// No live payment, but a FAILED attempt may still be on file
		// and is not refundable either.
		p, err = s.payments.GetByBookingRef(ctx, bookingRef)
		if err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return nil, fmt.Errorf("%w: payment %d for booking %s is %s and cannot be refunded", ErrConflict, p.ID, bookingRef, p.Status)
	}
	switch p.Status {
	case model.PaymentPending:
		return nil, fmt.Errorf("%w: payment %d for booking %s is not settled", ErrConflict, p.ID, bookingRef)
	case model.PaymentRefunded:
		return nil, nil
	}
	return p, nil
}

// GetRefundAmount reports what a cancellation at the given instant
// would refund.  Bookings that were never charged refund nothing;
// a PENDING or FAILED payment on file is a conflict.
func (s *PaymentService) GetRefundAmount(ctx context.Context, b *model.Booking, at time.Time) (decimal.Decimal, error) {
	p, err := s.refundablePayment(ctx, b.Reference)
	if err != nil {
		return decimal.Zero, err
	}
	if p == nil {
		return decimal.Zero.Round(2), nil
	}
	return RefundAmount(p.Amount, b.CheckIn, at), nil
}

// RefundForCancellation settles the refund side of a cancellation.  A
// COMPLETED payment is refunded per policy and marked REFUNDED when
// any money moves.  Bookings never charged, or whose payment was
// already refunded, refund nothing.  PENDING and FAILED payments
// cannot be refunded and are reported as conflicts.  Returns the
// amount refunded.
func (s *PaymentService) RefundForCancellation(ctx context.Context, b *model.Booking, at time.Time) (decimal.Decimal, error) {
	p, err := s.refundablePayment(ctx, b.Reference)
	if err != nil {
		return decimal.Zero, err
	}
	if p == nil {
		return decimal.Zero.Round(2), nil
	}
	amount := RefundAmount(p.Amount, b.CheckIn, at)
	if amount.IsZero() {
		return amount, nil
	}
	txnID := ""
	if p.TransactionID != nil {
		txnID = *p.TransactionID
	}
	if err := s.provider.Refund(ctx, txnID, amount); err != nil {
		return decimal.Zero, fmt.Errorf("refund booking %s: %w", b.Reference, err)
	}
	if _, err := s.payments.UpdateStatus(ctx, p.ID, model.PaymentRefunded, nil); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}
