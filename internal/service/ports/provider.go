package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeProvider abstracts the external payment gateway.  Charge
// returns the provider's transaction id on success.
type ChargeProvider interface {
	Charge(ctx context.Context, bookingRef string, amount decimal.Decimal, method string) (string, error)
	Refund(ctx context.Context, transactionID string, amount decimal.Decimal) error
}
