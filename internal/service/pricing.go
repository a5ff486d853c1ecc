package service

import "github.com/shopspring/decimal"

// ShippingPolicy prices delivery from the order subtotal.
type ShippingPolicy struct {
	// FreeThreshold is the subtotal at or above which shipping is free.
	FreeThreshold decimal.Decimal

	// FlatFee is charged below the threshold.
	FlatFee decimal.Decimal
}

// DefaultShippingPolicy is free shipping from 5000, otherwise 300.
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeThreshold: decimal.NewFromInt(5000),
		FlatFee:       decimal.NewFromInt(300),
	}
}

// Cost returns the shipping charge for subtotal.
func (p ShippingPolicy) Cost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.FlatFee
}
