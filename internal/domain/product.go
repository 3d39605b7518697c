package domain

import "time"

type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       int64     `db:"price" json:"price"`
	Stock       int64     `db:"stock" json:"stock"`
	ImageUrl    string    `db:"image_url" json:"image"`
	CategoryID  *int64    `db:"category_id" json:"category_id"`
	Category    string    `db:"category" json:"category"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Stock       *int64  `json:"stock"`
	ImageUrl    *string `json:"image"`
	CategoryID  *int64  `json:"category_id"`
	Active      *bool   `json:"active"`
}
