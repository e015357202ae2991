package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

func TestRefundAmountTiers(t *testing.T) {
	paid := decimal.RequireFromString("200.00")
	checkIn := date(2026, 9, 20)

	cases := []struct {
		name     string
		at       time.Time
		expected string
	}{
		{"ten days out", date(2026, 9, 10), "200.00"},
		{"exactly seven days", date(2026, 9, 13), "200.00"},
		{"six days", date(2026, 9, 14), "100.00"},
		{"five days", date(2026, 9, 15), "100.00"},
		{"exactly three days", date(2026, 9, 17), "100.00"},
		{"two days", date(2026, 9, 18), "0.00"},
		{"one day", date(2026, 9, 19), "0.00"},
		{"same day", date(2026, 9, 20), "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RefundAmount(paid, checkIn, tc.at)
			assert.Equal(t, tc.expected, got.StringFixed(2))
		})
	}
}

func TestRefundAmountHalvesWithRounding(t *testing.T) {
	// 100.01 / 2 = 50.005 -> rounds to 50.01.
	got := RefundAmount(decimal.RequireFromString("100.01"), date(2026, 9, 20), date(2026, 9, 15))
	assert.Equal(t, "50.01", got.StringFixed(2))
}

func TestRefundAmountUsesCalendarDays(t *testing.T) {
	// 18:00 the evening six-and-a-bit days before check-in still counts
	// as seven calendar days out.
	at := time.Date(2026, 9, 13, 18, 0, 0, 0, time.UTC)
	got := RefundAmount(decimal.RequireFromString("200.00"), date(2026, 9, 20), at)
	assert.Equal(t, "200.00", got.StringFixed(2))
}

func pendingBooking(ref string) *model.Booking {
	return &model.Booking{
		ID:         1,
		Reference:  ref,
		UserID:     7,
		HotelID:    1,
		RoomID:     1,
		CheckIn:    date(2026, 9, 20),
		CheckOut:   date(2026, 9, 22),
		TotalPrice: decimal.RequireFromString("247.50"),
		Status:     model.BookingPending,
	}
}

func TestChargeSuccess(t *testing.T) {
	store := newFakePaymentStore()
	provider := &fakeProvider{}
	svc := NewPaymentService(store, provider)

	p, err := svc.Charge(context.Background(), pendingBooking("ref-1"), model.MethodCreditCard)
	require.NoError(t, err)

	assert.Equal(t, model.PaymentCompleted, p.Status)
	require.NotNil(t, p.TransactionID)
	assert.Equal(t, "txn_test_1", *p.TransactionID)
	assert.Equal(t, "247.50", p.Amount.StringFixed(2))
}

func TestChargeUnknownMethod(t *testing.T) {
	svc := NewPaymentService(newFakePaymentStore(), &fakeProvider{})

	_, err := svc.Charge(context.Background(), pendingBooking("ref-1"), "BITCOIN")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestChargeDeclined(t *testing.T) {
	store := newFakePaymentStore()
	provider := &fakeProvider{chargeErr: errors.New("card declined")}
	svc := NewPaymentService(store, provider)

	p, err := svc.Charge(context.Background(), pendingBooking("ref-1"), model.MethodCreditCard)
	assert.ErrorIs(t, err, ErrPaymentFailed)
	require.NotNil(t, p)
	assert.Equal(t, model.PaymentFailed, p.Status)
}

func TestChargeRejectsSecondPayment(t *testing.T) {
	store := newFakePaymentStore()
	svc := NewPaymentService(store, &fakeProvider{})
	b := pendingBooking("ref-1")

	_, err := svc.Charge(context.Background(), b, model.MethodCreditCard)
	require.NoError(t, err)

	_, err = svc.Charge(context.Background(), b, model.MethodPayPal)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestChargeRetriesAfterFailure(t *testing.T) {
	store := newFakePaymentStore()
	provider := &fakeProvider{chargeErr: errors.New("card declined")}
	svc := NewPaymentService(store, provider)
	b := pendingBooking("ref-1")

	_, err := svc.Charge(context.Background(), b, model.MethodCreditCard)
	require.ErrorIs(t, err, ErrPaymentFailed)

	provider.chargeErr = nil
	p, err := svc.Charge(context.Background(), b, model.MethodCreditCard)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, p.Status)
}

func TestRefundForCancellationCompletedPayment(t *testing.T) {
	store := newFakePaymentStore()
	provider := &fakeProvider{}
	svc := NewPaymentService(store, provider)
	b := pendingBooking("ref-1")

	_, err := svc.Charge(context.Background(), b, model.MethodCreditCard)
	require.NoError(t, err)

	refund, err := svc.RefundForCancellation(context.Background(), b, date(2026, 9, 10))
	require.NoError(t, err)
	assert.Equal(t, "247.50", refund.StringFixed(2))
	assert.Equal(t, []string{"txn_test_1"}, provider.refunds)

	p, err := store.GetByBookingRef(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, p.Status)
}

func TestRefundForCancellationNoPayment(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewPaymentService(newFakePaymentStore(), provider)

	refund, err := svc.RefundForCancellation(context.Background(), pendingBooking("ref-1"), date(2026, 9, 10))
	require.NoError(t, err)
	assert.Equal(t, "0.00", refund.StringFixed(2))
	assert.Empty(t, provider.refunds)
}

func TestRefundForCancellationUnsettledPayment(t *testing.T) {
	store := newFakePaymentStore()
	provider := &fakeProvider{}
	svc := NewPaymentService(store, provider)

	err := store.Create(context.Background(), &model.Payment{
		BookingRef: "ref-1",
		Amount:     decimal.RequireFromString("247.50"),
		Method:     model.MethodCreditCard,
		Status:     model.PaymentPending,
	})
	require.NoError(t, err)

	_, err = svc.RefundForCancellation(context.Background(), pendingBooking("ref-1"), date(2026, 9, 10))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, provider.refunds)
}

func TestRefundFailedPaymentConflicts(t *testing.T) {
	store := newFakePaymentStore()
	provider := &fakeProvider{}
	svc := NewPaymentService(store, provider)

	err := store.Create(context.Background(), &model.Payment{
		BookingRef: "ref-1",
		Amount:     decimal.RequireFromString("247.50"),
		Method:     model.MethodCreditCard,
		Status:     model.PaymentFailed,
	})
	require.NoError(t, err)

	// A declined attempt on file is not the same as never charged:
	// refunding it must be rejected, not silently report zero.
	_, err = svc.RefundForCancellation(context.Background(), pendingBooking("ref-1"), date(2026, 9, 10))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, provider.refunds)

	_, err = svc.GetRefundAmount(context.Background(), pendingBooking("ref-1"), date(2026, 9, 10))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRefundAfterRetriedCharge(t *testing.T) {
	store := newFakePaymentStore()
	provider := &fakeProvider{chargeErr: errors.New("card declined")}
	svc := NewPaymentService(store, provider)
	b := pendingBooking("ref-1")

	_, err := svc.Charge(context.Background(), b, model.MethodCreditCard)
	require.ErrorIs(t, err, ErrPaymentFailed)

	provider.chargeErr = nil
	_, err = svc.Charge(context.Background(), b, model.MethodCreditCard)
	require.NoError(t, err)

	// The settled retry is refundable; the earlier FAILED row does not
	// shadow it.
	refund, err := svc.RefundForCancellation(context.Background(), b, date(2026, 9, 10))
	require.NoError(t, err)
	assert.Equal(t, "247.50", refund.StringFixed(2))
}

func TestRefundForCancellationInsideCutoff(t *testing.T) {
	store := newFakePaymentStore()
	provider := &fakeProvider{}
	svc := NewPaymentService(store, provider)
	b := pendingBooking("ref-1")

	_, err := svc.Charge(context.Background(), b, model.MethodCreditCard)
	require.NoError(t, err)

	// One day before check-in: no refund, payment stays COMPLETED.
	refund, err := svc.RefundForCancellation(context.Background(), b, date(2026, 9, 19))
	require.NoError(t, err)
	assert.Equal(t, "0.00", refund.StringFixed(2))
	assert.Empty(t, provider.refunds)

	p, err := store.GetByBookingRef(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, p.Status)
}
