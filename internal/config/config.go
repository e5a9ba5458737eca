package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/pricing"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	AuthService ServiceConfig
	Pricing     PricingConfig
	Checkout    CheckoutConfig
	Features    FeatureFlags
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	MaxLifetime   time.Duration
	MigrationsDir string
}

func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// MigrateURL is the database URL form golang-migrate expects.
func (d DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	CartTTL  time.Duration
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type KafkaConfig struct {
	Brokers          []string
	OrdersTopic      string
	FulfillmentTopic string
	ConsumerGroup    string
}

type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

type PricingConfig struct {
	TaxRate               float64
	ShippingFee           float64
	FreeShippingThreshold float64
}

// Rules converts the configured pricing knobs into pricing.Rules.
func (p PricingConfig) Rules() pricing.Rules {
	return pricing.Rules{
		TaxRate:               decimal.NewFromFloat(p.TaxRate),
		ShippingFee:           decimal.NewFromFloat(p.ShippingFee),
		FreeShippingThreshold: decimal.NewFromFloat(p.FreeShippingThreshold),
	}
}

type CheckoutConfig struct {
	// ProcessingDelay simulates the payment round trip before an order is
	// committed. No authorization happens behind it.
	ProcessingDelay time.Duration
	SessionTTL      time.Duration
}

type FeatureFlags struct {
	EnableOrderEvents       bool
	EnableFulfillmentEvents bool
}

// Load reads configuration from the environment with sane local defaults.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8084)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "acme")
	v.SetDefault("db.password", "acme")
	v.SetDefault("db.name", "acme_storefront")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.max_lifetime", 5*time.Minute)
	v.SetDefault("db.migrations_dir", "migrations")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cart_ttl", 7*24*time.Hour)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.orders_topic", "storefront.orders")
	v.SetDefault("kafka.fulfillment_topic", "fulfillment.shipments")
	v.SetDefault("kafka.consumer_group", "storefront-service")

	v.SetDefault("auth_service.base_url", "http://localhost:8081")
	v.SetDefault("auth_service.timeout", 10*time.Second)

	v.SetDefault("pricing.tax_rate", 0.08)
	v.SetDefault("pricing.shipping_fee", 9.99)
	v.SetDefault("pricing.free_shipping_threshold", 100.0)

	v.SetDefault("checkout.processing_delay", 2*time.Second)
	v.SetDefault("checkout.session_ttl", time.Hour)

	v.SetDefault("features.enable_order_events", true)
	v.SetDefault("features.enable_fulfillment_events", true)

	return &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			Host:          v.GetString("db.host"),
			Port:          v.GetInt("db.port"),
			User:          v.GetString("db.user"),
			Password:      v.GetString("db.password"),
			Name:          v.GetString("db.name"),
			SSLMode:       v.GetString("db.sslmode"),
			MaxOpenConns:  v.GetInt("db.max_open_conns"),
			MaxIdleConns:  v.GetInt("db.max_idle_conns"),
			MaxLifetime:   v.GetDuration("db.max_lifetime"),
			MigrationsDir: v.GetString("db.migrations_dir"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			CartTTL:  v.GetDuration("redis.cart_ttl"),
		},
		Kafka: KafkaConfig{
			Brokers:          v.GetStringSlice("kafka.brokers"),
			OrdersTopic:      v.GetString("kafka.orders_topic"),
			FulfillmentTopic: v.GetString("kafka.fulfillment_topic"),
			ConsumerGroup:    v.GetString("kafka.consumer_group"),
		},
		AuthService: ServiceConfig{
			BaseURL: v.GetString("auth_service.base_url"),
			Timeout: v.GetDuration("auth_service.timeout"),
		},
		Pricing: PricingConfig{
			TaxRate:               v.GetFloat64("pricing.tax_rate"),
			ShippingFee:           v.GetFloat64("pricing.shipping_fee"),
			FreeShippingThreshold: v.GetFloat64("pricing.free_shipping_threshold"),
		},
		Checkout: CheckoutConfig{
			ProcessingDelay: v.GetDuration("checkout.processing_delay"),
			SessionTTL:      v.GetDuration("checkout.session_ttl"),
		},
		Features: FeatureFlags{
			EnableOrderEvents:       v.GetBool("features.enable_order_events"),
			EnableFulfillmentEvents: v.GetBool("features.enable_fulfillment_events"),
		},
	}
}
