package adapters

import (
	"context"
	"strconv"

	"bookstore-checkout/internal/core/messaging"
	"bookstore-checkout/internal/features/checkout/domain"

	"github.com/segmentio/kafka-go"
)

// EventTypeOrderPlaced is carried in the event-type header.
const EventTypeOrderPlaced = "order.placed"

// KafkaPublisher writes checkout events to a Kafka topic keyed by order id.
type KafkaPublisher struct {
	writer messaging.MessageWriter
}

// NewKafkaPublisher creates a publisher over writer.
func NewKafkaPublisher(writer messaging.MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// PublishOrderPlaced implements ports.EventPublisher.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	return messaging.PublishJSON(ctx, p.writer, strconv.FormatInt(event.OrderID, 10), event,
		kafka.Header{Key: "event-type", Value: []byte(EventTypeOrderPlaced)},
	)
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

// PublishOrderPlaced implements ports.EventPublisher.
func (NoopPublisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	return nil
}

// Close implements ports.EventPublisher.
func (NoopPublisher) Close() error {
	return nil
}
