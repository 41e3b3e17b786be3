package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID          uuid.UUID `json:"id"`
	Barcode     *string   `json:"barcode,omitempty"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CostPrice   float64   `json:"cost_price"`
	SalePrice   float64   `json:"sale_price"`
	Stock       int       `json:"stock"`
	MinStock    int       `json:"min_stock"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Category    *Category `json:"category,omitempty"`
}

type CreateProductRequest struct {
	Barcode     *string `json:"barcode,omitempty"`
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description *string `json:"description,omitempty"`
	CostPrice   float64 `json:"cost_price" validate:"gte=0"`
	SalePrice   float64 `json:"sale_price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	MinStock    int     `json:"min_stock" validate:"gte=0"`
	CategoryID  *int64  `json:"category_id,omitempty"`
}

type UpdateProductRequest struct {
	Barcode     *string  `json:"barcode,omitempty"`
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string  `json:"description,omitempty"`
	CostPrice   *float64 `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	SalePrice   *float64 `json:"sale_price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	MinStock    *int     `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
	CategoryID  *int64   `json:"category_id,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}
