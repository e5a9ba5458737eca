package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

type recordingUpdater struct {
	calls []struct {
		actor  *models.User
		order  string
		status models.OrderStatus
	}
}

func (r *recordingUpdater) UpdateStatus(ctx context.Context, actor *models.User, orderID string, status models.OrderStatus) (*models.Order, error) {
	r.calls = append(r.calls, struct {
		actor  *models.User
		order  string
		status models.OrderStatus
	}{actor, orderID, status})
	return &models.Order{ID: orderID, Status: status}, nil
}

func fulfillmentMessage(t *testing.T, eventType FulfillmentEventType, orderID string) kafka.Message {
	t.Helper()
	data, err := json.Marshal(FulfillmentEvent{
		ID:        "evt_test",
		Type:      eventType,
		OrderID:   orderID,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestHandleMessageDispatchedMapsToShipped(t *testing.T) {
	updater := &recordingUpdater{}
	c := &KafkaConsumer{ledger: updater, logger: zerolog.Nop()}

	c.handleMessage(context.Background(), fulfillmentMessage(t, FulfillmentShipmentDispatched, "ord_1"))

	require.Len(t, updater.calls, 1)
	assert.Equal(t, "ord_1", updater.calls[0].order)
	assert.Equal(t, models.OrderStatusShipped, updater.calls[0].status)
}

func TestHandleMessageDeliveredMapsToDelivered(t *testing.T) {
	updater := &recordingUpdater{}
	c := &KafkaConsumer{ledger: updater, logger: zerolog.Nop()}

	c.handleMessage(context.Background(), fulfillmentMessage(t, FulfillmentShipmentDelivered, "ord_2"))

	require.Len(t, updater.calls, 1)
	assert.Equal(t, models.OrderStatusDelivered, updater.calls[0].status)
}

func TestHandleMessageRunsAsAdminActor(t *testing.T) {
	updater := &recordingUpdater{}
	c := &KafkaConsumer{ledger: updater, logger: zerolog.Nop()}

	c.handleMessage(context.Background(), fulfillmentMessage(t, FulfillmentShipmentDispatched, "ord_3"))

	require.Len(t, updater.calls, 1)
	actor := updater.calls[0].actor
	require.NotNil(t, actor)
	assert.True(t, actor.IsAdmin)
	assert.Equal(t, "system-fulfillment", actor.ID)
}

func TestHandleMessageIgnoresUnknownTypes(t *testing.T) {
	updater := &recordingUpdater{}
	c := &KafkaConsumer{ledger: updater, logger: zerolog.Nop()}

	c.handleMessage(context.Background(), fulfillmentMessage(t, "shipment.lost", "ord_4"))

	assert.Empty(t, updater.calls)
}

func TestHandleMessageIgnoresMalformedPayload(t *testing.T) {
	updater := &recordingUpdater{}
	c := &KafkaConsumer{ledger: updater, logger: zerolog.Nop()}

	c.handleMessage(context.Background(), kafka.Message{Value: []byte("not json")})

	assert.Empty(t, updater.calls)
}
