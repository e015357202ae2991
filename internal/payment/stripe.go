package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// StripeProvider charges through Stripe payment intents.  Only card
// payments are supported; other methods fall back on the caller's
// configuration being wrong and are rejected up front.
type StripeProvider struct {
	currency string
}

// NewStripeProvider sets the global Stripe key and returns a provider
// charging in the given ISO currency (e.g. "usd").
func NewStripeProvider(apiKey, currency string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{currency: currency}
}

// minorUnits converts a two-decimal amount to the smallest currency
// unit Stripe expects.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// Charge creates and confirms a payment intent for the booking and
// returns the intent id as the transaction id.
func (p *StripeProvider) Charge(_ context.Context, bookingRef string, amount decimal.Decimal, method string) (string, error) {
	if method != "CREDIT_CARD" {
		return "", fmt.Errorf("stripe provider supports card payments only, got %s", method)
	}
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(minorUnits(amount)),
		Currency:    stripe.String(p.currency),
		Confirm:     stripe.Bool(true),
		Description: stripe.String("booking " + bookingRef),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("payment intent %s not settled: %s", pi.ID, pi.Status)
	}
	return pi.ID, nil
}

// Refund returns part or all of a settled payment intent.
func (p *StripeProvider) Refund(_ context.Context, transactionID string, amount decimal.Decimal) error {
	_, err := refund.New(&stripe.RefundParams{
		PaymentIntent: stripe.String(transactionID),
		Amount:        stripe.Int64(minorUnits(amount)),
	})
	return err
}
