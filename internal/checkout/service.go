// Package checkout drives the multi-step checkout flow: shipping, payment,
// review, placed, with validation gates between steps and an atomic
// place-order transition at the end.
package checkout

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/pricing"
)

// Store persists checkout sessions.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// CartAccess is the slice of the cart service the flow needs.
type CartAccess interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// Ledger appends placed orders.
type Ledger interface {
	AddOrder(ctx context.Context, actor *models.User, draft models.OrderDraft) (*models.Order, error)
}

// Service is the checkout state machine.
type Service struct {
	store           Store
	carts           CartAccess
	ledger          Ledger
	rules           pricing.Rules
	processingDelay time.Duration
	logger          zerolog.Logger
}

// NewService creates a checkout service. processingDelay simulates the
// payment round trip before the order is committed.
func NewService(store Store, carts CartAccess, ledger Ledger, rules pricing.Rules, processingDelay time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		store:           store,
		carts:           carts,
		ledger:          ledger,
		rules:           rules,
		processingDelay: processingDelay,
		logger:          logger.With().Str("component", "checkout").Logger(),
	}
}

// Quote returns the pricing breakdown for the session's cart. The same
// computation backs the cart view, so displayed and stored totals match.
func (s *Service) Quote(ctx context.Context, sessionID string) (pricing.Totals, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}
	return pricing.ComputeTotals(cart.Subtotal(), s.rules), nil
}

// Start opens (or resumes) a checkout flow. A flow cannot be entered with an
// empty cart.
func (s *Service) Start(ctx context.Context, sessionID string, actor *models.User) (*Session, error) {
	if actor == nil {
		return nil, apperrors.ErrForbidden
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.NewValidationError("cart", "cart is empty")
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess != nil && sess.Step != StepPlaced {
		return sess, nil
	}

	sess = &Session{
		ID:     sessionID,
		UserID: actor.ID,
		Step:   StepShipping,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("session_id", sessionID).Msg("Checkout started")
	return sess, nil
}

// Get returns the current session state.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperrors.ErrNotFound
	}
	return sess, nil
}

// SubmitShipping validates the address and advances shipping -> payment.
// On validation failure the step does not move and per-field messages are
// returned.
func (s *Service) SubmitShipping(ctx context.Context, sessionID string, addr models.ShippingAddress) (*Session, error) {
	sess, err := s.requireStep(ctx, sessionID, StepShipping)
	if err != nil {
		return nil, err
	}

	if err := validateShipping(&addr); err != nil {
		return nil, err
	}

	sess.ShippingAddress = addr
	sess.Step = StepPayment
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SubmitPayment validates the card format and advances payment -> review.
// Only the masked descriptor is retained.
func (s *Service) SubmitPayment(ctx context.Context, sessionID string, details PaymentDetails) (*Session, error) {
	sess, err := s.requireStep(ctx, sessionID, StepPayment)
	if err != nil {
		return nil, err
	}

	if err := validatePayment(details); err != nil {
		return nil, err
	}

	sess.PaymentMethod = maskCard(details.CardNumber)
	sess.Step = StepReview
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Back navigates payment -> shipping or review -> payment. At the shipping
// step it is a no-op; a placed flow cannot be reopened.
func (s *Service) Back(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch sess.Step {
	case StepPayment:
		sess.Step = StepShipping
	case StepReview:
		sess.Step = StepPayment
	case StepPlaced:
		return nil, apperrors.NewValidationError("step", "checkout already completed")
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// PlaceOrder runs the review -> placed transition: simulated processing,
// then atomically snapshot the cart into an order, append it to the ledger,
// clear the cart and mark the flow placed. On ledger failure the flow stays
// in review with the cart intact so the caller can retry. Re-entry while a
// placement is in flight is rejected.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, actor *models.User) (*models.Order, *Session, error) {
	sess, err := s.requireStep(ctx, sessionID, StepReview)
	if err != nil {
		return nil, nil, err
	}
	if sess.InFlight {
		return nil, nil, apperrors.ErrPlacementInProgress
	}

	sess.InFlight = true
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, nil, err
	}

	order, err := s.placeOrder(ctx, sess, actor)

	sess.InFlight = false
	if err != nil {
		// Settle back to review; the cart was not touched.
		if saveErr := s.store.Save(ctx, sess); saveErr != nil {
			s.logger.Error().Err(saveErr).Str("session_id", sessionID).Msg("Failed to settle checkout session")
		}
		metrics.OrderPlacementFailures.Inc()
		return nil, sess, err
	}

	sess.Step = StepPlaced
	sess.OrderID = order.ID
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to persist placed checkout session")
	}

	metrics.OrdersPlacedTotal.Inc()
	s.logger.Info().
		Str("session_id", sessionID).
		Str("order_id", order.ID).
		Msg("Order placed")
	return order, sess, nil
}

func (s *Service) placeOrder(ctx context.Context, sess *Session, actor *models.User) (*models.Order, error) {
	if err := s.simulateProcessing(ctx); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.NewValidationError("cart", "cart is empty")
	}

	totals := pricing.ComputeTotals(cart.Subtotal(), s.rules)
	draft := models.OrderDraft{
		Items:           snapshotItems(cart),
		Subtotal:        totals.Subtotal,
		Shipping:        totals.Shipping,
		Tax:             totals.Tax,
		Total:           totals.Total,
		ShippingAddress: sess.ShippingAddress,
		PaymentMethod:   sess.PaymentMethod,
	}

	order, err := s.ledger.AddOrder(ctx, actor, draft)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("Order creation failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrOrderCreationFailed, err)
	}

	// Clearing the cart only after a successful append keeps placement
	// all-or-nothing from the caller's perspective.
	if err := s.carts.Clear(ctx, sess.ID); err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to clear cart after placement")
	}
	return order, nil
}

func (s *Service) simulateProcessing(ctx context.Context) error {
	if s.processingDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.processingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// snapshotItems freezes the cart lines in product-id order.
func snapshotItems(cart *models.Cart) []models.OrderItem {
	ids := make([]string, 0, len(cart.Lines))
	for id := range cart.Lines {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]models.OrderItem, 0, len(ids))
	for _, id := range ids {
		line := cart.Lines[id]
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Image:       line.Image,
		})
	}
	return items
}

func (s *Service) requireStep(ctx context.Context, sessionID string, step Step) (*Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step != step {
		return nil, apperrors.NewValidationError("step",
			fmt.Sprintf("operation requires the %s step, flow is at %s", step, sess.Step))
	}
	return sess, nil
}
