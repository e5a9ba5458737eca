package ledger

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

var (
	alice = &models.User{ID: "user-alice", Email: "alice@example.com", Name: "Alice"}
	bob   = &models.User{ID: "user-bob", Email: "bob@example.com", Name: "Bob"}
	admin = &models.User{ID: "user-admin", Email: "admin@example.com", Name: "Admin", IsAdmin: true}
)

func testDraft() models.OrderDraft {
	return models.OrderDraft{
		Items: []models.OrderItem{
			{ProductID: "p1", ProductName: "Product", UnitPrice: decimal.NewFromInt(40), Quantity: 2},
		},
		Subtotal:      decimal.NewFromInt(80),
		Shipping:      decimal.RequireFromString("9.99"),
		Tax:           decimal.RequireFromString("6.40"),
		Total:         decimal.RequireFromString("96.39"),
		PaymentMethod: "****1111",
	}
}

func newTestService() (*Service, *repository.MemoryOrderRepository, *events.MockEventPublisher) {
	repo := repository.NewMemoryOrderRepository()
	publisher := events.NewMockEventPublisher()
	return NewService(repo, publisher, zerolog.Nop()), repo, publisher
}

func TestAddOrderAssignsIdentity(t *testing.T) {
	svc, _, publisher := newTestService()

	order, err := svc.AddOrder(context.Background(), alice, testDraft())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.ID, "ord_"))
	assert.Equal(t, alice.ID, order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.CreatedAt.IsZero())
	assert.True(t, order.Total.Equal(decimal.RequireFromString("96.39")))

	require.Len(t, publisher.Events, 1)
	assert.Equal(t, events.EventTypeOrderPlaced, publisher.Events[0].Type)
	assert.Equal(t, order.ID, publisher.Events[0].OrderID)
}

func TestAddOrderRequiresActor(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AddOrder(context.Background(), nil, testDraft())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestListOrdersScopedToOwner(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddOrder(ctx, alice, testDraft())
	require.NoError(t, err)
	_, err = svc.AddOrder(ctx, bob, testDraft())
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, alice)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, alice.ID, orders[0].UserID)
}

func TestListOrdersAdminSeesAll(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddOrder(ctx, alice, testDraft())
	require.NoError(t, err)
	_, err = svc.AddOrder(ctx, bob, testDraft())
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestListOrdersRequiresActor(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListOrders(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGetOrderOwnership(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	order, err := svc.AddOrder(ctx, alice, testDraft())
	require.NoError(t, err)

	got, err := svc.GetOrder(ctx, alice, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Another customer's order reads as not found, not forbidden.
	_, err = svc.GetOrder(ctx, bob, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Admins see everything.
	_, err = svc.GetOrder(ctx, admin, order.ID)
	assert.NoError(t, err)
}

func TestGetOrderUnknownID(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetOrder(context.Background(), alice, "ord_missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateStatusAdminOnly(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	order, err := svc.AddOrder(ctx, alice, testDraft())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, alice, order.ID, models.OrderStatusShipped)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.UpdateStatus(ctx, nil, order.ID, models.OrderStatusShipped)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := svc.UpdateStatus(ctx, admin, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	order, err := svc.AddOrder(ctx, alice, testDraft())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin, order.ID, "refunded")
	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "status")
}

func TestUpdateStatusAllowsAnyJump(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	order, err := svc.AddOrder(ctx, alice, testDraft())
	require.NoError(t, err)

	// Fulfillment corrections can move status in any direction.
	_, err = svc.UpdateStatus(ctx, admin, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	updated, err := svc.UpdateStatus(ctx, admin, order.ID, models.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)
}

func TestUpdateStatusPublishesChange(t *testing.T) {
	svc, _, publisher := newTestService()
	ctx := context.Background()

	order, err := svc.AddOrder(ctx, alice, testDraft())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin, order.ID, models.OrderStatusProcessing)
	require.NoError(t, err)

	require.Len(t, publisher.Events, 2)
	assert.Equal(t, events.EventTypeOrderStatusChanged, publisher.Events[1].Type)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), admin, "ord_missing", models.OrderStatusShipped)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
