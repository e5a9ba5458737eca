// Package pricing is the single source of the storefront's order math. The
// cart view and the checkout flow both call ComputeTotals so the displayed
// breakdown can never drift from the stored one.
package pricing

import "github.com/shopspring/decimal"

// Rules holds the pricing knobs. Defaults match the storefront's published
// policy: free shipping at $100, $9.99 flat fee below it, 8% tax.
type Rules struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// DefaultRules returns the standard storefront pricing rules.
func DefaultRules() Rules {
	return Rules{
		TaxRate:               decimal.NewFromFloat(0.08),
		ShippingFee:           decimal.NewFromFloat(9.99),
		FreeShippingThreshold: decimal.NewFromInt(100),
	}
}

// Totals is the full pricing breakdown for a cart or order.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals applies the rules to a subtotal. Tax is rounded to cents;
// shipping is waived at or above the free-shipping threshold.
func ComputeTotals(subtotal decimal.Decimal, rules Rules) Totals {
	shipping := rules.ShippingFee
	if subtotal.GreaterThanOrEqual(rules.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(rules.TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
