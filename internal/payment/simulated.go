// Package payment implements the charge providers the payment service
// can be configured with.
package payment

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SimulatedProvider approves every charge and refund without talking
// to any gateway.  It is the default provider for local development
// and test environments.
type SimulatedProvider struct{}

// NewSimulatedProvider returns a provider that always succeeds.
func NewSimulatedProvider() *SimulatedProvider { return &SimulatedProvider{} }

// Charge approves the payment and returns a synthetic transaction id.
func (p *SimulatedProvider) Charge(_ context.Context, bookingRef string, amount decimal.Decimal, method string) (string, error) {
	txnID := "txn_" + uuid.NewString()
	log.Printf("payment: simulated %s charge of %s for booking %s -> %s",
		method, amount.StringFixed(2), bookingRef, txnID)
	return txnID, nil
}

// Refund approves the refund.
func (p *SimulatedProvider) Refund(_ context.Context, transactionID string, amount decimal.Decimal) error {
	log.Printf("payment: simulated refund of %s against %s", amount.StringFixed(2), transactionID)
	return nil
}
