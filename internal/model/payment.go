package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates the payment lifecycle.  A payment is created
// PENDING when a charge is attempted and moves to COMPLETED or FAILED
// depending on the provider outcome.  REFUNDED is reachable only from
// COMPLETED and is terminal.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// PaymentMethod enumerates supported charge methods.
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "CREDIT_CARD"
	MethodPayPal     PaymentMethod = "PAYPAL"
	MethodWallet     PaymentMethod = "WALLET"
)

// ValidPaymentMethod reports whether m is one of the supported methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCreditCard, MethodPayPal, MethodWallet:
		return true
	}
	return false
}

// Payment records a charge attempt against a booking.  It references the
// booking by its external Reference string rather than its numeric id so
// payment records survive any internal renumbering.  TransactionID is the
// opaque provider reference, set once the charge completes (or a refund
// is issued) and nil for PENDING/FAILED payments.
//
// Invariant: a booking has at most one non-FAILED payment at a time.
type Payment struct {
	ID            uint64          // payments.id
	BookingRef    string          // payments.booking_reference
	Amount        decimal.Decimal // payments.amount DECIMAL(10,2)
	Method        PaymentMethod   // payments.method
	Status        PaymentStatus   // payments.status
	TransactionID *string         // payments.transaction_id (nullable)
	CreatedAt     time.Time       // payments.created_at
	UpdatedAt     time.Time       // payments.updated_at
}
