package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/pricing"
)

// cartView is the cart response shape. Totals come from the shared pricing
// computation so what the cart shows is exactly what an order will store.
type cartView struct {
	Lines     []*models.CartLine `json:"lines"`
	ItemCount int                `json:"item_count"`
	Totals    pricing.Totals     `json:"totals"`
}

func (h *Handlers) cartView(cart *models.Cart) cartView {
	lines := make([]*models.CartLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, line)
	}
	return cartView{
		Lines:     lines,
		ItemCount: cart.ItemCount(),
		Totals:    pricing.ComputeTotals(cart.Subtotal(), h.rules),
	}
}

// GetCart handles GET /api/v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), sessionIDFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView(cart))
}

// AddCartItem handles POST /api/v1/cart/items
func (h *Handlers) AddCartItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.carts.Add(c.Request.Context(), sessionIDFrom(c), req.ProductID, req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView(cart))
}

// UpdateCartItem handles PUT /api/v1/cart/items/:product_id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.carts.UpdateQuantity(c.Request.Context(), sessionIDFrom(c), c.Param("product_id"), req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView(cart))
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:product_id
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	cart, err := h.carts.Remove(c.Request.Context(), sessionIDFrom(c), c.Param("product_id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView(cart))
}

// ClearCart handles DELETE /api/v1/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), sessionIDFrom(c)); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
