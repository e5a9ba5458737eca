// Package cart implements the cart engine: a per-session mapping of product
// id to quantity with stock-ceiling enforcement and derived totals.
package cart

import (
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// Add puts qty units of product into the cart. An existing line accumulates;
// the resulting quantity is clamped to [1, stockCount]. Out-of-stock
// products are rejected and the cart is left unchanged.
func Add(cart *models.Cart, product *models.Product, qty int) error {
	if !product.InStock || product.StockCount <= 0 {
		return apperrors.ErrOutOfStock
	}
	if qty < 1 {
		qty = 1
	}

	line, ok := cart.Lines[product.ID]
	if !ok {
		line = &models.CartLine{
			ProductID:  product.ID,
			Name:       product.Name,
			UnitPrice:  product.Price,
			Image:      product.Image,
			StockCount: product.StockCount,
		}
		cart.Lines[product.ID] = line
	}

	line.Quantity = clamp(line.Quantity+qty, 1, line.StockCount)
	return nil
}

// UpdateQuantity sets a line's quantity directly. Zero or negative removes
// the line; above stock clamps. Unknown product ids are a no-op.
func UpdateQuantity(cart *models.Cart, productID string, qty int) {
	line, ok := cart.Lines[productID]
	if !ok {
		return
	}
	if qty <= 0 {
		delete(cart.Lines, productID)
		return
	}
	line.Quantity = clamp(qty, 1, line.StockCount)
}

// Remove deletes a line unconditionally. Absent ids are a no-op.
func Remove(cart *models.Cart, productID string) {
	delete(cart.Lines, productID)
}

// Clear empties the cart. Called exactly once after a successful placement.
func Clear(cart *models.Cart) {
	cart.Lines = make(map[string]*models.CartLine)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
