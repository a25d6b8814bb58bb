package repository

import (
	"context"

	"fsanano/storefront/internal/model"

	"github.com/jackc/pgx/v5"
)

const productColumns = `product_id, category_id, title, description, image_url, price, created_at`

// ListCategories returns every category ordered by id
func (r *Repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `SELECT category_id, name, created_at FROM category ORDER BY category_id`)
	if err != nil {
		return nil, wrap("list categories", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Category])
	if err != nil {
		return nil, wrap("list categories", err)
	}
	return categories, nil
}

// SearchProducts returns products whose title contains search, ignoring case.
// An empty search matches every product.
func (r *Repository) SearchProducts(ctx context.Context, search string) ([]model.Product, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		`SELECT `+productColumns+` FROM product WHERE title ILIKE '%' || $1 || '%' ORDER BY product_id`, search)
	if err != nil {
		return nil, wrap("search products", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Product])
	if err != nil {
		return nil, wrap("search products", err)
	}
	return products, nil
}

// ListProductsByCategory returns the products of a single category
func (r *Repository) ListProductsByCategory(ctx context.Context, categoryID int) ([]model.Product, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		`SELECT `+productColumns+` FROM product WHERE category_id = $1 ORDER BY product_id`, categoryID)
	if err != nil {
		return nil, wrap("list products by category", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Product])
	if err != nil {
		return nil, wrap("list products by category", err)
	}
	return products, nil
}

// GetProduct returns a single product or ErrNotFound
func (r *Repository) GetProduct(ctx context.Context, productID int) (model.Product, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `SELECT `+productColumns+` FROM product WHERE product_id = $1`, productID)
	if err != nil {
		return model.Product{}, wrap("get product", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Product])
	if err != nil {
		return model.Product{}, wrap("get product", err)
	}
	return product, nil
}

// ListProductSizes returns the sizes of a product ordered by id
func (r *Repository) ListProductSizes(ctx context.Context, productID int) ([]model.ProductSize, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		`SELECT product_size_id, product_id, size, quantity_available
		   FROM product_size WHERE product_id = $1 ORDER BY product_size_id`, productID)
	if err != nil {
		return nil, wrap("list product sizes", err)
	}
	sizes, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ProductSize])
	if err != nil {
		return nil, wrap("list product sizes", err)
	}
	return sizes, nil
}
