package cart

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// Store persists one cart per session id.
type Store interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Save(ctx context.Context, sessionID string, cart *models.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// ProductGetter looks up live product data for add-to-cart.
type ProductGetter interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// Service wraps the cart engine with session persistence. Every mutation is
// a load-modify-save against the store.
type Service struct {
	store    Store
	products ProductGetter
	logger   zerolog.Logger
}

// NewService creates a cart service.
func NewService(store Store, products ProductGetter, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		products: products,
		logger:   logger.With().Str("component", "cart").Logger(),
	}
}

// Get returns the session's cart.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	return s.store.Get(ctx, sessionID)
}

// Add adds qty units of a product, accumulating onto an existing line.
func (s *Service) Add(ctx context.Context, sessionID, productID string, qty int) (*models.Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := Add(cart, product, qty); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("product_id", productID).
		Int("quantity", cart.Lines[productID].Quantity).
		Msg("Cart line added")
	return cart, nil
}

// UpdateQuantity sets a line's quantity; zero or below removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, qty int) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	UpdateQuantity(cart, productID, qty)

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove drops a line; absent ids are a no-op.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	Remove(cart, productID)

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	Clear(cart)
	return s.store.Save(ctx, sessionID, cart)
}
