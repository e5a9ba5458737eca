// Package ledger is the append-only collection of placed orders. Orders are
// immutable after creation except for their status, which only admin actors
// may change.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// OrderRepository is the persistence surface the ledger writes to.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Order, error)
	ListAll(ctx context.Context) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

// EventPublisher emits order lifecycle events. Publishing is best-effort;
// failures are logged, never propagated.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) error
}

// Service implements the order ledger.
type Service struct {
	repo      OrderRepository
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewService creates a ledger service. publisher may be nil when events are
// disabled.
func NewService(repo OrderRepository, publisher EventPublisher, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("component", "ledger").Logger(),
	}
}

// AddOrder constructs an order from a draft, assigns a fresh id and
// timestamp, persists it and returns the stored record. The draft's
// snapshots are stored as-is; nothing about them is recomputed here.
func (s *Service) AddOrder(ctx context.Context, actor *models.User, draft models.OrderDraft) (*models.Order, error) {
	if actor == nil {
		return nil, apperrors.ErrForbidden
	}

	order := &models.Order{
		ID:              "ord_" + uuid.NewString(),
		UserID:          actor.ID,
		Items:           draft.Items,
		Subtotal:        draft.Subtotal,
		Shipping:        draft.Shipping,
		Tax:             draft.Tax,
		Total:           draft.Total,
		Status:          models.OrderStatusPending,
		ShippingAddress: draft.ShippingAddress,
		PaymentMethod:   draft.PaymentMethod,
		CreatedAt:       time.Now(),
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.ID).Msg("Failed to append order")
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID).Msg("Failed to publish order placed event")
		}
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Str("total", order.Total.String()).
		Msg("Order appended")
	return order, nil
}

// ListOrders returns the actor's orders newest-first; admins see every order
// system-wide.
func (s *Service) ListOrders(ctx context.Context, actor *models.User) ([]*models.Order, error) {
	if actor == nil {
		return nil, apperrors.ErrForbidden
	}
	if actor.IsAdmin {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByUser(ctx, actor.ID)
}

// GetOrder returns one order. Non-admin actors only see their own; anything
// else reads as not found rather than leaking existence.
func (s *Service) GetOrder(ctx context.Context, actor *models.User, id string) (*models.Order, error) {
	if actor == nil {
		return nil, apperrors.ErrForbidden
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && order.UserID != actor.ID {
		return nil, apperrors.ErrNotFound
	}
	return order, nil
}

// UpdateStatus changes an order's status. Admin-only; the status value must
// be a known one, but any jump between known statuses is accepted.
func (s *Service) UpdateStatus(ctx context.Context, actor *models.User, id string, status models.OrderStatus) (*models.Order, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, apperrors.ErrForbidden
	}
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.NewValidationError("status", "invalid order status")
	}

	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderStatusChanged(ctx, order, previous.Status); err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID).Msg("Failed to publish status change event")
		}
	}

	return order, nil
}
