package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EventPublisher emits domain events for downstream consumers (notification,
// reporting). Publishing is best effort: failures are logged by callers and
// never fail the transaction that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, queue string, event any) error
	Close() error
}

const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingCancelled = "booking.cancelled"
	QueueRefundCompleted  = "refund.completed"
)

type amqpPublisher struct {
	conn *amqp.Connection
	log  *zap.Logger
}

func NewAMQPPublisher(url string, log *zap.Logger) (EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	return &amqpPublisher{
		conn: conn,
		log:  log.With(zap.String("gateway", "event_publisher")),
	}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, queue string, event any) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	// Durable so messages survive broker restarts; declare is idempotent.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}

	p.log.Debug("Event published", zap.String("queue", queue))
	return nil
}

func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}

// noopPublisher is used when no broker is configured.
type noopPublisher struct{}

func NewNoopPublisher() EventPublisher { return noopPublisher{} }

func (noopPublisher) Publish(ctx context.Context, queue string, event any) error { return nil }

func (noopPublisher) Close() error { return nil }

// Event payloads.

type BookingConfirmedEvent struct {
	BookingID   string `json:"booking_id"`
	BookingCode string `json:"booking_code"`
	UserID      string `json:"user_id"`
	FinalAmount string `json:"final_amount"`
	TicketCount int    `json:"ticket_count"`
}

type BookingCancelledEvent struct {
	BookingID   string `json:"booking_id"`
	BookingCode string `json:"booking_code"`
	UserID      string `json:"user_id"`
	Reason      string `json:"reason"`
}

type RefundCompletedEvent struct {
	RefundID  string `json:"refund_id"`
	PaymentID string `json:"payment_id"`
	BookingID string `json:"booking_id"`
	Amount    string `json:"amount"`
}
