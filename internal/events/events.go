package events

import (
	"context"
	"time"

	"fsanano/storefront/internal/model"
)

const OrderPlacedType = "order.placed"

// OrderPlaced is emitted once an order and its line items have committed.
type OrderPlaced struct {
	EventID     string      `json:"event_id"`
	Type        string      `json:"type"`
	OrderID     int         `json:"order_id"`
	OrderNumber int         `json:"order_number"`
	UserID      int         `json:"user_id"`
	Subtotal    model.Money `json:"subtotal"`
	TaxAmount   model.Money `json:"tax_amount"`
	OrderTotal  model.Money `json:"order_total"`
	ItemCount   int         `json:"item_count"`
	PlacedAt    time.Time   `json:"placed_at"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

func (NopPublisher) Close() error { return nil }
