package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the canonical catalog record. The storefront treats it as
// read-only; mutations happen through admin tooling outside this service.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price,omitempty"`
	Category      string          `json:"category"`
	Image         string          `json:"image"`
	Images        []string        `json:"images,omitempty"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	InStock       bool            `json:"in_stock"`
	StockCount    int             `json:"stock_count"`
	Featured      bool            `json:"featured"`
	Tags          []string        `json:"tags,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Category is a static taxonomy entry served alongside products.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}
