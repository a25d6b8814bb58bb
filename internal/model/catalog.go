package model

import "time"

type Category struct {
	ID        int       `json:"category_id" db:"category_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Product struct {
	ID          int       `json:"product_id" db:"product_id"`
	CategoryID  int       `json:"category_id" db:"category_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Price       Money     `json:"price" db:"price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type ProductSize struct {
	ID                int    `json:"product_size_id" db:"product_size_id"`
	ProductID         int    `json:"product_id" db:"product_id"`
	Size              string `json:"size" db:"size"`
	QuantityAvailable int    `json:"quantity_available" db:"quantity_available"`
}

// ProductDetail is a product flattened together with its sizes.
type ProductDetail struct {
	Product
	Sizes []ProductSize `json:"sizes"`
}
