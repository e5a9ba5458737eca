package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	Category string
	Featured bool
}

// PostgresProductRepository reads the product catalog from PostgreSQL.
type PostgresProductRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresProductRepository creates a new PostgreSQL product repository.
func NewPostgresProductRepository(db *sql.DB, logger zerolog.Logger) *PostgresProductRepository {
	return &PostgresProductRepository{
		db:     db,
		logger: logger.With().Str("component", "product-repository").Logger(),
	}
}

const productColumns = `
	id, name, description, price, original_price, category, image, images,
	rating, reviews, in_stock, stock_count, featured, tags, created_at
`

// List returns products matching the filter, newest first.
func (r *PostgresProductRepository) List(ctx context.Context, filter ProductFilter) ([]*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE 1=1"
	args := make([]interface{}, 0, 2)

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += " AND category = $1"
	}
	if filter.Featured {
		query += " AND featured = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to list products")
		return nil, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug().Int("count", len(products)).Msg("Products listed")
	return products, nil
}

// GetByID retrieves a single product.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("Failed to fetch product")
		return nil, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var originalPrice sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&originalPrice,
		&p.Category,
		&p.Image,
		pq.Array(&p.Images),
		&p.Rating,
		&p.Reviews,
		&p.InStock,
		&p.StockCount,
		&p.Featured,
		pq.Array(&p.Tags),
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if originalPrice.Valid {
		if err := p.OriginalPrice.Scan(originalPrice.String); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
