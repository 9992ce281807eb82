package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/luxeshop/storefront/internal/cart"
	"github.com/luxeshop/storefront/internal/config"
	"github.com/luxeshop/storefront/internal/domain"
)

// Pricing holds the shipping and tax rules
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPricing is free shipping from 100, a flat 10 below it and 8% tax
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.NewFromInt(100),
		ShippingFee:           decimal.NewFromInt(10),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// PricingFromConfig converts the configured rules
func PricingFromConfig(cfg config.CheckoutConfig) Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.NewFromFloat(cfg.FreeShippingThreshold),
		ShippingFee:           decimal.NewFromFloat(cfg.ShippingFee),
		TaxRate:               decimal.NewFromFloat(cfg.TaxRate),
	}
}

// Totals is the money breakdown of an order, rounded to cents
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Compute prices the cart lines
func (p Pricing) Compute(lines []domain.CartLine) Totals {
	subtotal := cart.Subtotal(lines)

	shipping := p.ShippingFee
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate)
	total := subtotal.Add(shipping).Add(tax)

	return Totals{
		Subtotal: subtotal.Round(2).InexactFloat64(),
		Shipping: shipping.Round(2).InexactFloat64(),
		Tax:      tax.Round(2).InexactFloat64(),
		Total:    total.Round(2).InexactFloat64(),
	}
}
