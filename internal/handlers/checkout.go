package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/checkout"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// StartCheckout handles POST /api/v1/checkout/start
func (h *Handlers) StartCheckout(c *gin.Context) {
	sess, err := h.checkout.Start(c.Request.Context(), sessionIDFrom(c), actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// GetCheckout handles GET /api/v1/checkout
func (h *Handlers) GetCheckout(c *gin.Context) {
	sess, err := h.checkout.Get(c.Request.Context(), sessionIDFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}

	totals, err := h.checkout.Quote(c.Request.Context(), sessionIDFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": sess,
		"totals":  totals,
	})
}

// SubmitShipping handles POST /api/v1/checkout/shipping
func (h *Handlers) SubmitShipping(c *gin.Context) {
	var addr models.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, err := h.checkout.SubmitShipping(c.Request.Context(), sessionIDFrom(c), addr)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// SubmitPayment handles POST /api/v1/checkout/payment
func (h *Handlers) SubmitPayment(c *gin.Context) {
	var details checkout.PaymentDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, err := h.checkout.SubmitPayment(c.Request.Context(), sessionIDFrom(c), details)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// CheckoutBack handles POST /api/v1/checkout/back
func (h *Handlers) CheckoutBack(c *gin.Context) {
	sess, err := h.checkout.Back(c.Request.Context(), sessionIDFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// PlaceOrder handles POST /api/v1/checkout/place
func (h *Handlers) PlaceOrder(c *gin.Context) {
	order, sess, err := h.checkout.PlaceOrder(c.Request.Context(), sessionIDFrom(c), actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":   order,
		"session": sess,
	})
}
