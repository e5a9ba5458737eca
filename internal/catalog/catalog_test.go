package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

func seedProducts() []*models.Product {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*models.Product{
		{
			ID: "p_headphones", Name: "Wireless Headphones", Description: "Noise cancelling over-ear",
			Price: decimal.RequireFromString("299.99"), Category: "electronics",
			Rating: 4.8, Featured: true, Tags: []string{"wireless", "audio"},
			CreatedAt: base.Add(3 * 24 * time.Hour),
		},
		{
			ID: "p_watch", Name: "Fitness Watch", Description: "Heart rate and GPS tracking",
			Price: decimal.RequireFromString("199.99"), Category: "electronics",
			Rating: 4.6, Featured: false, Tags: []string{"fitness", "gps"},
			CreatedAt: base.Add(2 * 24 * time.Hour),
		},
		{
			ID: "p_tshirt", Name: "Cotton T-Shirt", Description: "Soft organic cotton",
			Price: decimal.RequireFromString("29.99"), Category: "clothing",
			Rating: 4.4, Featured: false, Tags: []string{"organic", "casual"},
			CreatedAt: base.Add(24 * time.Hour),
		},
		{
			ID: "p_wallet", Name: "Leather Wallet", Description: "Slim wallet with RFID blocking",
			Price: decimal.RequireFromString("49.99"), Category: "accessories",
			Rating: 4.5, Featured: true, Tags: []string{"leather", "rfid"},
			CreatedAt: base,
		},
	}
}

func newTestService() *Service {
	return NewService(repository.NewMemoryProductRepository(seedProducts()...), zerolog.Nop())
}

func ids(products []*models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestListAll(t *testing.T) {
	svc := newTestService()

	products, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, products, 4)
}

func TestListByCategory(t *testing.T) {
	svc := newTestService()

	products, err := svc.List(context.Background(), Filter{Category: "electronics"})
	require.NoError(t, err)

	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, "electronics", p.Category)
	}
}

func TestListFeaturedOnly(t *testing.T) {
	svc := newTestService()

	products, err := svc.List(context.Background(), Filter{Featured: true})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"p_headphones", "p_wallet"}, ids(products))
}

func TestSearchMatchesNameDescriptionAndTags(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	byName, err := svc.List(ctx, Filter{Query: "wireless"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p_headphones"}, ids(byName))

	byDescription, err := svc.List(ctx, Filter{Query: "rfid blocking"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p_wallet"}, ids(byDescription))

	byTag, err := svc.List(ctx, Filter{Query: "GPS"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p_watch"}, ids(byTag))
}

func TestSearchNoMatches(t *testing.T) {
	svc := newTestService()

	products, err := svc.List(context.Background(), Filter{Query: "submarine"})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSortOrders(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		sort SortKey
		want []string
	}{
		{SortPriceLow, []string{"p_tshirt", "p_wallet", "p_watch", "p_headphones"}},
		{SortPriceHigh, []string{"p_headphones", "p_watch", "p_wallet", "p_tshirt"}},
		{SortRating, []string{"p_headphones", "p_watch", "p_wallet", "p_tshirt"}},
		{SortNewest, []string{"p_headphones", "p_watch", "p_tshirt", "p_wallet"}},
		// Featured first, newest-first within each group.
		{SortFeatured, []string{"p_headphones", "p_wallet", "p_watch", "p_tshirt"}},
		{"", []string{"p_headphones", "p_wallet", "p_watch", "p_tshirt"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			products, err := svc.List(ctx, Filter{Sort: tt.sort})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(products))
		})
	}
}

func TestGetByID(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.GetByID(ctx, "p_watch")
	require.NoError(t, err)
	assert.Equal(t, "Fitness Watch", p.Name)

	_, err = svc.GetByID(ctx, "p_missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCategoriesAreStatic(t *testing.T) {
	svc := newTestService()

	cats := svc.Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, "electronics", cats[0].ID)
}
