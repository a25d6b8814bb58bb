package repository

import (
	"context"
)

// GetQuantityAvailable returns the stock of a product size
func (r *Repository) GetQuantityAvailable(ctx context.Context, productSizeID int) (int, error) {
	var qty int
	err := r.getExecutor(ctx).QueryRow(ctx,
		`SELECT quantity_available FROM product_size WHERE product_size_id = $1`, productSizeID).Scan(&qty)
	if err != nil {
		return 0, wrap("get quantity available", err)
	}
	return qty, nil
}

// SetQuantityAvailable overwrites the stock of a product size. A nil qty
// stores 0.
func (r *Repository) SetQuantityAvailable(ctx context.Context, productSizeID int, qty *int) error {
	tag, err := r.getExecutor(ctx).Exec(ctx,
		`UPDATE product_size SET quantity_available = COALESCE($1::int, 0) WHERE product_size_id = $2`,
		qty, productSizeID)
	if err != nil {
		return wrap("set quantity available", err)
	}
	if tag.RowsAffected() == 0 {
		return wrap("set quantity available", ErrNotFound)
	}
	return nil
}

// FindSizeID resolves a size label of a product to its product_size_id
func (r *Repository) FindSizeID(ctx context.Context, productID int, size string) (int, error) {
	var id int
	err := r.getExecutor(ctx).QueryRow(ctx,
		`SELECT product_size_id FROM product_size WHERE product_id = $1 AND size = $2`, productID, size).Scan(&id)
	if err != nil {
		return 0, wrap("find size id", err)
	}
	return id, nil
}

// DecrementStock removes qty units from a product size only if enough are
// available. It reports false when the row is missing or short on stock.
func (r *Repository) DecrementStock(ctx context.Context, productSizeID, qty int) (bool, error) {
	tag, err := r.getExecutor(ctx).Exec(ctx,
		`UPDATE product_size
		    SET quantity_available = quantity_available - $1
		  WHERE product_size_id = $2 AND quantity_available >= $1`,
		qty, productSizeID)
	if err != nil {
		return false, wrap("decrement stock", err)
	}
	return tag.RowsAffected() == 1, nil
}
