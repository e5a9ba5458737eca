package cart

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

func newTestService() *Service {
	products := repository.NewMemoryProductRepository(
		testProduct("p1", "29.99", 10),
		testProduct("p2", "100", 2),
	)
	return NewService(repository.NewMemoryCartStore(), products, zerolog.Nop())
}

func TestServiceAddPersists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "p1", 2)
	require.NoError(t, err)

	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Lines["p1"].Quantity)
}

func TestServiceAddUnknownProduct(t *testing.T) {
	svc := newTestService()

	_, err := svc.Add(context.Background(), "sess-1", "missing", 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestServiceCartsAreIsolatedBySession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-a", "p1", 1)
	require.NoError(t, err)

	cart, err := svc.Get(ctx, "sess-b")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestServiceUpdateAndRemove(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "p1", 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "sess-1", "p2", 1)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, "sess-1", "p2", 5)
	require.NoError(t, err)
	// p2 only has 2 in stock.
	assert.Equal(t, 2, cart.Lines["p2"].Quantity)

	cart, err = svc.Remove(ctx, "sess-1", "p1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
}

func TestServiceClear(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "p1", 3)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "sess-1"))

	cart, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}
