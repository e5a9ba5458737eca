// Package catalog exposes the product query surface: filtered listings,
// free-text search, sorting and point lookups. It is a pure read path.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// SortKey selects a listing order.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// Filter narrows and orders a product listing.
type Filter struct {
	Category string
	Query    string
	Featured bool
	Sort     SortKey
}

// ProductRepository is the persistence surface the catalog reads from.
type ProductRepository interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// Service answers catalog queries.
type Service struct {
	repo   ProductRepository
	logger zerolog.Logger
}

// NewService creates a catalog service.
func NewService(repo ProductRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// List returns products matching the filter in the requested order.
// Category and featured are pushed down to the repository; the free-text
// query and sorting run over the (small) result set.
func (s *Service) List(ctx context.Context, filter Filter) ([]*models.Product, error) {
	products, err := s.repo.List(ctx, repository.ProductFilter{
		Category: filter.Category,
		Featured: filter.Featured,
	})
	if err != nil {
		return nil, err
	}

	if filter.Query != "" {
		products = searchProducts(products, filter.Query)
	}

	sortProducts(products, filter.Sort)

	s.logger.Debug().
		Str("category", filter.Category).
		Str("query", filter.Query).
		Int("count", len(products)).
		Msg("Catalog listed")
	return products, nil
}

// GetByID returns the product or apperrors.ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Categories returns the static catalog taxonomy.
func (s *Service) Categories() []models.Category {
	return categories
}

// searchProducts is a case-insensitive substring match over name,
// description and tags.
func searchProducts(products []*models.Product, query string) []*models.Product {
	q := strings.ToLower(query)
	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			tagsMatch(p.Tags, q) {
			out = append(out, p)
		}
	}
	return out
}

func tagsMatch(tags []string, q string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// sortProducts orders in place. The repository returns newest-first, so
// SortNewest keeps the incoming order and every sort is stable with respect
// to it.
func sortProducts(products []*models.Product, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	case SortNewest:
		// Already newest-first.
	case SortFeatured, "":
		fallthrough
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Featured && !products[j].Featured
		})
	}
}

var categories = []models.Category{
	{
		ID:          "electronics",
		Name:        "Electronics",
		Description: "Latest gadgets and tech essentials",
		Image:       "https://images.unsplash.com/photo-1498049794561-7780e7231661?w=600&q=80",
	},
	{
		ID:          "clothing",
		Name:        "Clothing",
		Description: "Stylish apparel for every occasion",
		Image:       "https://images.unsplash.com/photo-1489987707025-afc232f7ea0f?w=600&q=80",
	},
	{
		ID:          "home-garden",
		Name:        "Home & Garden",
		Description: "Beautiful pieces for your living space",
		Image:       "https://images.unsplash.com/photo-1616486338812-3dadae4b4ace?w=600&q=80",
	},
	{
		ID:          "accessories",
		Name:        "Accessories",
		Description: "Complete your look with premium accessories",
		Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=600&q=80",
	},
}
