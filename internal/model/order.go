package model

import "time"

// CartItem is one client-supplied line of a checkout request. It is never
// stored as-is.
type CartItem struct {
	ProductID    int   `json:"product_id"`
	SizeID       int   `json:"size_id"`
	Quantity     int   `json:"quantity"`
	PricePerUnit Money `json:"price_per_unit"`
}

// PricedItem is a cart item enriched with its rounded subtotal and tax.
type PricedItem struct {
	CartItem
	Subtotal  Money `json:"subtotal"`
	TaxAmount Money `json:"tax_amount"`
}

type Order struct {
	ID              int       `json:"order_id" db:"order_id"`
	OrderNumber     int       `json:"order_number" db:"order_number"`
	UserID          int       `json:"user_id" db:"user_id"`
	Status          string    `json:"status" db:"status"`
	ShippingAddress string    `json:"shipping_address" db:"shipping_address"`
	PaymentMethod   string    `json:"payment_method" db:"payment_method"`
	Subtotal        Money     `json:"subtotal" db:"subtotal"`
	TaxAmount       Money     `json:"taxamount" db:"taxamount"`
	OrderTotal      Money     `json:"order_total" db:"order_total"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type OrderItem struct {
	ID           int       `json:"order_item_id" db:"order_item_id"`
	OrderID      int       `json:"order_id" db:"order_id"`
	ProductID    int       `json:"product_id" db:"product_id"`
	SizeID       int       `json:"size_id" db:"size_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	PricePerUnit Money     `json:"price_per_unit" db:"price_per_unit"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// OrderLine is one row of a user's order history: the order header joined
// with a single line item and its product and size.
type OrderLine struct {
	OrderID         int       `json:"order_id" db:"order_id"`
	OrderNumber     int       `json:"order_number" db:"order_number"`
	OrderTotal      Money     `json:"order_total" db:"order_total"`
	Status          string    `json:"status" db:"status"`
	ShippingAddress string    `json:"shipping_address" db:"shipping_address"`
	PaymentMethod   string    `json:"payment_method" db:"payment_method"`
	Subtotal        Money     `json:"subtotal" db:"subtotal"`
	TaxAmount       Money     `json:"taxamount" db:"taxamount"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	Quantity        int       `json:"quantity" db:"quantity"`
	PricePerUnit    Money     `json:"price_per_unit" db:"price_per_unit"`
	ItemTitle       string    `json:"item_title" db:"item_title"`
	ItemSize        string    `json:"item_size" db:"item_size"`
}
