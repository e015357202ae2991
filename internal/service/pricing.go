package service

import (
	"github.com/shopspring/decimal"
)

// Quote is an itemized price for a stay.  All amounts carry two
// decimal places; rounding is half-up at each step so the total is
// always the exact sum of the lines.
type Quote struct {
	Nights     int
	RoomCharge decimal.Decimal
	ServiceFee decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
}

// PricingService computes stay prices from a flat per-booking service
// fee and a tax rate applied to the subtotal.
type PricingService struct {
	serviceFee decimal.Decimal
	taxRate    decimal.Decimal
}

// NewPricingService returns a pricing service with the given flat fee
// and tax rate (e.g. 0.10 for ten percent).
func NewPricingService(serviceFee, taxRate decimal.Decimal) *PricingService {
	return &PricingService{serviceFee: serviceFee, taxRate: taxRate}
}

// Quote prices a stay of the given length at the given nightly rate.
// The room charge is rate times nights, the tax applies to room charge
// plus service fee, and every line is rounded to cents before summing.
func (s *PricingService) Quote(nightlyRate decimal.Decimal, nights int) Quote {
	roomCharge := nightlyRate.Mul(decimal.NewFromInt(int64(nights))).Round(2)
	fee := s.serviceFee.Round(2)
	tax := roomCharge.Add(fee).Mul(s.taxRate).Round(2)
	return Quote{
		Nights:     nights,
		RoomCharge: roomCharge,
		ServiceFee: fee,
		Tax:        tax,
		Total:      roomCharge.Add(fee).Add(tax),
	}
}
