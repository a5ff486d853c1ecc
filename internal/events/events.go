// Package events publishes order lifecycle events for consumers that do the
// slow follow-up work (customer notifications, fulfilment hand-off) outside
// the request path.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types. The subject is the type under the configured prefix.
const (
	TypeOrderCreated  = "orders.created"
	TypeOrderPaid     = "orders.paid"
	TypeOrderCanceled = "orders.canceled"
	TypeOrderStatus   = "orders.status_changed"
)

// Event is the payload published for every order transition.
type Event struct {
	EventID     string          `json:"event_id"`
	Type        string          `json:"type"`
	OrderID     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaymentID   string          `json:"payment_id,omitempty"`
	Source      string          `json:"source"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType string) Event {
	return Event{
		EventID:   uuid.New().String(),
		Type:      eventType,
		CreatedAt: time.Now().UTC(),
	}
}

// TypeForStatus maps an order status onto its event type.
func TypeForStatus(status string) string {
	switch status {
	case "paid":
		return TypeOrderPaid
	case "canceled":
		return TypeOrderCanceled
	default:
		return TypeOrderStatus
	}
}

// Publisher hands events to the broker. Publish must not block on consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
