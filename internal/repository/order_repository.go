package repository

import (
	"context"
	"fmt"

	"fsanano/storefront/internal/model"

	"github.com/jackc/pgx/v5"
)

// OrderNumberExists reports whether an order already uses number
func (r *Repository) OrderNumberExists(ctx context.Context, number int) (bool, error) {
	var exists bool
	err := r.getExecutor(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM "order" WHERE order_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, wrap("check order number", err)
	}
	return exists, nil
}

// CreateOrder inserts the order header and returns it with the generated
// order_id and created_at filled in.
func (r *Repository) CreateOrder(ctx context.Context, o model.Order) (model.Order, error) {
	err := r.getExecutor(ctx).QueryRow(ctx,
		`INSERT INTO "order" (user_id, order_total, status, shipping_address, payment_method, order_number, subtotal, taxamount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 RETURNING order_id, order_number, created_at`,
		o.UserID, o.OrderTotal, o.Status, o.ShippingAddress, o.PaymentMethod, o.OrderNumber, o.Subtotal, o.TaxAmount,
	).Scan(&o.ID, &o.OrderNumber, &o.CreatedAt)
	if err != nil {
		return model.Order{}, wrap("create order", err)
	}
	return o, nil
}

// CreateOrderItems inserts every item of an order in a single batch. Callers
// run it inside RunAtomic together with CreateOrder.
func (r *Repository) CreateOrderItems(ctx context.Context, orderID int, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(
			`INSERT INTO order_item (order_id, product_id, size_id, quantity, price_per_unit, created_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())`,
			orderID, it.ProductID, it.SizeID, it.Quantity, it.PricePerUnit,
		)
	}

	br := r.getExecutor(ctx).SendBatch(ctx, batch)
	for i := range items {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return wrap(fmt.Sprintf("create order item %d", i), err)
		}
	}
	if err := br.Close(); err != nil {
		return wrap("create order items", err)
	}
	return nil
}

// ListOrderLines returns the order history of a user, one row per line item
func (r *Repository) ListOrderLines(ctx context.Context, userID int) ([]model.OrderLine, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT
			o.order_id,
			o.order_number,
			o.order_total,
			o.status,
			o.shipping_address,
			o.payment_method,
			o.subtotal,
			o.taxamount,
			o.created_at,
			oi.quantity,
			oi.price_per_unit,
			p.title AS item_title,
			ps.size AS item_size
		FROM "order" o
		JOIN order_item oi ON oi.order_id = o.order_id
		JOIN product p ON p.product_id = oi.product_id
		JOIN product_size ps ON ps.product_size_id = oi.size_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.order_id DESC, oi.order_item_id`, userID)
	if err != nil {
		return nil, wrap("list order lines", err)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.OrderLine])
	if err != nil {
		return nil, wrap("list order lines", err)
	}
	return lines, nil
}
