// Package handlers is the HTTP surface of the storefront service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/cart"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/catalog"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/checkout"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/clients"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/ledger"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/pricing"
)

// Handlers holds all HTTP handlers for the storefront service.
type Handlers struct {
	catalog    *catalog.Service
	carts      *cart.Service
	checkout   *checkout.Service
	ledger     *ledger.Service
	authClient clients.AuthClient
	rules      pricing.Rules
	logger     zerolog.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	catalogSvc *catalog.Service,
	cartSvc *cart.Service,
	checkoutSvc *checkout.Service,
	ledgerSvc *ledger.Service,
	authClient clients.AuthClient,
	rules pricing.Rules,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		catalog:    catalogSvc,
		carts:      cartSvc,
		checkout:   checkoutSvc,
		ledger:     ledgerSvc,
		authClient: authClient,
		rules:      rules,
		logger:     logger.With().Str("component", "handlers").Logger(),
	}
}

func handleError(c *gin.Context, err error) {
	if ve, ok := apperrors.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, apperrors.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "product out of stock"})
	case errors.Is(err, apperrors.ErrPlacementInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "order placement already in progress"})
	case errors.Is(err, apperrors.ErrOrderCreationFailed):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "order creation failed",
			"retryable": true,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
