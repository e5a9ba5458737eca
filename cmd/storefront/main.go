package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/cart"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/catalog"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/checkout"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/clients"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/ledger"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/server"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "storefront-service").
		Logger()

	logger.Info().Int("port", cfg.Server.Port).Msg("Starting storefront-service")

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := runMigrations(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	productRepo := repository.NewPostgresProductRepository(db, logger)
	orderRepo := repository.NewPostgresOrderRepository(db, logger)
	cartStore := repository.NewRedisCartStore(redisClient, cfg.Redis.CartTTL, logger)
	checkoutStore := repository.NewRedisCheckoutStore(redisClient, cfg.Checkout.SessionTTL, logger)

	authClient := clients.NewHTTPAuthClient(cfg.AuthService, logger)

	var publisher ledger.EventPublisher
	var kafkaPublisher *events.KafkaPublisher
	if cfg.Features.EnableOrderEvents {
		kafkaPublisher = events.NewKafkaPublisher(cfg.Kafka, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	rules := cfg.Pricing.Rules()

	catalogSvc := catalog.NewService(productRepo, logger)
	cartSvc := cart.NewService(cartStore, productRepo, logger)
	ledgerSvc := ledger.NewService(orderRepo, publisher, logger)
	checkoutSvc := checkout.NewService(checkoutStore, cartSvc, ledgerSvc, rules, cfg.Checkout.ProcessingDelay, logger)

	h := handlers.NewHandlers(catalogSvc, cartSvc, checkoutSvc, ledgerSvc, authClient, rules, logger)

	srv := server.New(h, cfg)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	var consumer *events.KafkaConsumer
	if cfg.Features.EnableFulfillmentEvents {
		consumer = events.NewKafkaConsumer(cfg.Kafka, ledgerSvc, logger)
		go func() {
			if err := consumer.Start(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("Fulfillment consumer failed")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if consumer != nil {
		consumer.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initDatabase(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("host", cfg.Database.Host).
		Str("name", cfg.Database.Name).
		Msg("Database connected")
	return db, nil
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.Database.MigrationsDir, cfg.Database.MigrateURL())
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
