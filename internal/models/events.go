package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent is published after a checkout transaction commits, once per
// created order. It carries everything the notification worker needs so the
// worker never reads back through the checkout path.
type OrderPlacedEvent struct {
	BaseEvent
	OrderID        uuid.UUID       `json:"order_id"`
	UserID         uuid.UUID       `json:"user_id"`
	JewelryName    string          `json:"jewelry_name"`
	Quantity       int             `json:"quantity"`
	Amount         decimal.Decimal `json:"amount"`
	RecipientName  string          `json:"recipient_name"`
	RecipientEmail string          `json:"recipient_email"`
}

// OrderStatusChangedEvent is published when an order moves through its
// lifecycle (PROCESSING, SHIPPED, DELIVERED, CANCELLED).
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID        uuid.UUID `json:"order_id"`
	UserID         uuid.UUID `json:"user_id"`
	OldStatus      string    `json:"old_status"`
	NewStatus      string    `json:"new_status"`
	RecipientName  string    `json:"recipient_name"`
	RecipientEmail string    `json:"recipient_email"`
}
