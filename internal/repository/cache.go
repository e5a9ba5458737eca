package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/checkout"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

const (
	cartKeyPrefix     = "cart:"
	checkoutKeyPrefix = "checkout:"
	defaultCartTTL    = 7 * 24 * time.Hour
)

// NewRedisClient builds the shared Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisCartStore keeps one cart per session id in Redis.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCartStore creates a Redis-backed cart store.
func NewRedisCartStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisCartStore {
	if ttl == 0 {
		ttl = defaultCartTTL
	}
	return &RedisCartStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}
}

// Get loads the cart for a session. A missing key is an empty cart, not an
// error.
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return models.NewCart(), nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Cart get error")
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	if cart.Lines == nil {
		cart.Lines = make(map[string]*models.CartLine)
	}
	return &cart, nil
}

// Save writes the cart back, refreshing its TTL.
func (s *RedisCartStore) Save(ctx context.Context, sessionID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, cartKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Cart save error")
		return err
	}
	return nil
}

// Delete drops the cart for a session.
func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, cartKeyPrefix+sessionID).Err()
}

// RedisCheckoutStore keeps checkout sessions in Redis.
type RedisCheckoutStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCheckoutStore creates a Redis-backed checkout session store.
func NewRedisCheckoutStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisCheckoutStore {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &RedisCheckoutStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "checkout-store").Logger(),
	}
}

// Get loads a checkout session, or nil when none exists.
func (s *RedisCheckoutStore) Get(ctx context.Context, sessionID string) (*checkout.Session, error) {
	data, err := s.client.Get(ctx, checkoutKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Checkout session get error")
		return nil, err
	}

	var sess checkout.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save writes a checkout session back.
func (s *RedisCheckoutStore) Save(ctx context.Context, sess *checkout.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, checkoutKeyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("Checkout session save error")
		return err
	}
	return nil
}

// Delete drops a checkout session.
func (s *RedisCheckoutStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, checkoutKeyPrefix+sessionID).Err()
}
