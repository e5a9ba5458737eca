package models

import "github.com/shopspring/decimal"

// CartLine maps one product to a quantity. The product fields are a snapshot
// taken when the line was created so the cart can render and total itself
// without re-fetching the catalog.
type CartLine struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Image      string          `json:"image"`
	StockCount int             `json:"stock_count"`
	Quantity   int             `json:"quantity"`
}

// Cart is a mapping from product id to line. One cart per session; no
// cross-device synchronization.
type Cart struct {
	Lines map[string]*CartLine `json:"lines"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Lines: make(map[string]*CartLine)}
}

// ItemCount is the sum of quantities over all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

// Subtotal is the sum of unit price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.Lines {
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
