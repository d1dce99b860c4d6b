package products

import "github.com/google/uuid"

type VariantForm struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	Title         string     `json:"title" validate:"required,max=120"`
	Price         int64      `json:"price" validate:"required,gt=0"`
	Stock         int        `json:"stock" validate:"gte=0"`
	LowStockAlert *int       `json:"lowStockAlert,omitempty" validate:"omitempty,gte=0"`
	Color         *string    `json:"color,omitempty"`
	Images        []string   `json:"images,omitempty"`
}

type ProductForm struct {
	Name        string        `json:"name" validate:"required,max=200"`
	Description string        `json:"description"`
	CategoryID  int64         `json:"categoryId" validate:"required,gt=0"`
	Status      ProductStatus `json:"status" validate:"omitempty,oneof=draft published"`
	Variants    []VariantForm `json:"variants" validate:"required,min=1,dive"`
	TagIDs      []int64       `json:"tagIds,omitempty"`
}
