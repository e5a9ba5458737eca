package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8084, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 7*24*time.Hour, cfg.Redis.CartTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Second, cfg.Checkout.ProcessingDelay)
	assert.True(t, cfg.Features.EnableOrderEvents)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("STOREFRONT_SERVER_PORT", "9000")
	t.Setenv("STOREFRONT_PRICING_TAX_RATE", "0.05")

	cfg := Load()

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 0.05, cfg.Pricing.TaxRate)
}

func TestDatabaseURLs(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: 5432, User: "acme", Password: "secret",
		Name: "storefront", SSLMode: "disable",
	}

	assert.Equal(t,
		"host=db port=5432 user=acme password=secret dbname=storefront sslmode=disable",
		db.ConnectionString())
	assert.Equal(t,
		"postgres://acme:secret@db:5432/storefront?sslmode=disable",
		db.MigrateURL())
}

func TestPricingRulesConversion(t *testing.T) {
	rules := PricingConfig{TaxRate: 0.08, ShippingFee: 9.99, FreeShippingThreshold: 100}.Rules()

	assert.True(t, rules.TaxRate.Equal(decimal.NewFromFloat(0.08)))
	assert.True(t, rules.ShippingFee.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, rules.FreeShippingThreshold.Equal(decimal.NewFromInt(100)))
}
