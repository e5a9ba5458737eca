package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// FulfillmentEventType labels a fulfillment event on the wire.
type FulfillmentEventType string

const (
	FulfillmentShipmentDispatched FulfillmentEventType = "shipment.dispatched"
	FulfillmentShipmentDelivered  FulfillmentEventType = "shipment.delivered"
)

// FulfillmentEvent is what the fulfillment side emits when a shipment moves.
type FulfillmentEvent struct {
	ID        string               `json:"id"`
	Type      FulfillmentEventType `json:"type"`
	OrderID   string               `json:"order_id"`
	Timestamp time.Time            `json:"timestamp"`
}

// StatusUpdater is the slice of the ledger the consumer drives.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, actor *models.User, orderID string, status models.OrderStatus) (*models.Order, error)
}

// fulfillmentActor is the synthetic admin identity fulfillment updates run
// as, so the ledger's role gate stays the single authorization point.
var fulfillmentActor = &models.User{
	ID:      "system-fulfillment",
	Name:    "Fulfillment",
	IsAdmin: true,
}

// KafkaConsumer applies fulfillment events to the order ledger.
type KafkaConsumer struct {
	reader *kafka.Reader
	ledger StatusUpdater
	logger zerolog.Logger
	stopCh chan struct{}
}

// NewKafkaConsumer creates a consumer on the fulfillment topic.
func NewKafkaConsumer(cfg config.KafkaConfig, ledger StatusUpdater, logger zerolog.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.FulfillmentTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader: reader,
		ledger: ledger,
		logger: logger.With().Str("component", "fulfillment-consumer").Logger(),
		stopCh: make(chan struct{}),
	}
}

// Start consumes until the context is cancelled or Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info().Msg("Starting fulfillment consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info().Msg("Fulfillment consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Error().Err(err).Msg("Failed to read message")
				continue
			}
			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() {
	close(c.stopCh)
	c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	var event FulfillmentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error().Err(err).Msg("Failed to unmarshal fulfillment event")
		return
	}

	var status models.OrderStatus
	switch event.Type {
	case FulfillmentShipmentDispatched:
		status = models.OrderStatusShipped
	case FulfillmentShipmentDelivered:
		status = models.OrderStatusDelivered
	default:
		c.logger.Debug().Str("type", string(event.Type)).Msg("Ignoring unknown fulfillment event type")
		return
	}

	if _, err := c.ledger.UpdateStatus(ctx, fulfillmentActor, event.OrderID, status); err != nil {
		c.logger.Error().Err(err).
			Str("order_id", event.OrderID).
			Str("status", string(status)).
			Msg("Failed to apply fulfillment update")
		return
	}

	c.logger.Info().
		Str("order_id", event.OrderID).
		Str("status", string(status)).
		Msg("Fulfillment update applied")
}
