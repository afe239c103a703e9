// Package events publishes domain events about orders to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"asicshop/internal/models"
	"asicshop/pkg/kafka"
	"asicshop/pkg/rabbitmq"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventOrderCreated is the type of the event emitted after checkout.
const EventOrderCreated = "OrderCreated"

// OrderLine is an order item as carried in events.
type OrderLine struct {
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// OrderCreated is emitted once an order and its items are committed.
type OrderCreated struct {
	EventID       string      `json:"eventId"`
	EventType     string      `json:"eventType"`
	OccurredAt    time.Time   `json:"occurredAt"`
	OrderID       uint        `json:"orderId"`
	UserID        *uint       `json:"userId,omitempty"`
	Email         string      `json:"email"`
	PaymentMethod string      `json:"paymentMethod"`
	TotalAmount   string      `json:"totalAmount"`
	Items         []OrderLine `json:"items"`
}

// NewOrderCreated builds the event for a committed order.
func NewOrderCreated(order models.Order) OrderCreated {
	lines := make([]OrderLine, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, OrderLine{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	return OrderCreated{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		OccurredAt:    time.Now().UTC(),
		OrderID:       order.ID,
		UserID:        order.UserID,
		Email:         order.Email,
		PaymentMethod: order.PaymentMethod,
		TotalAmount:   order.TotalAmount,
		Items:         lines,
	}
}

// Publisher delivers order events.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, ev OrderCreated) error
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, OrderCreated) error { return nil }

// RabbitPublisher sends events to a RabbitMQ queue.
type RabbitPublisher struct {
	client *rabbitmq.Client
}

// NewRabbitPublisher wraps client.
func NewRabbitPublisher(client *rabbitmq.Client) *RabbitPublisher {
	return &RabbitPublisher{client: client}
}

func (p *RabbitPublisher) PublishOrderCreated(_ context.Context, ev OrderCreated) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	return p.client.Publish(body, map[string]interface{}{"x-event-type": ev.EventType})
}

// KafkaPublisher queues events on a Kafka producer, keyed by order ID so
// every event of one order lands on the same partition.
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher wraps producer.
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) PublishOrderCreated(_ context.Context, ev OrderCreated) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	p.producer.Publish(
		[]byte(strconv.FormatUint(uint64(ev.OrderID), 10)),
		body,
		kafkago.Header{Key: "x-event-type", Value: []byte(ev.EventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	return nil
}

// LogHandler returns a consumer callback that logs received order events.
func LogHandler(log *zap.Logger) func(body []byte) error {
	return func(body []byte) error {
		var ev OrderCreated
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("decode order event: %w", err)
		}
		log.Info("order event received",
			zap.String("eventId", ev.EventID),
			zap.String("eventType", ev.EventType),
			zap.Uint("orderId", ev.OrderID),
			zap.String("totalAmount", ev.TotalAmount),
			zap.Int("lines", len(ev.Items)))
		return nil
	}
}
