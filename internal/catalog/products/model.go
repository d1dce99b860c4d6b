package products

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the catalog lifecycle state of a product.
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
)

// Product is a sellable catalog entry composed of one or more variants.
type Product struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CategoryID  int64         `json:"categoryId"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Variants    []Variant     `json:"variants"`
	TagIDs      []int64       `json:"tagIds,omitempty"`
}

// Variant is a purchasable SKU of a product. Price is in currency minor units.
type Variant struct {
	ID            uuid.UUID `json:"id"`
	ProductID     int64     `json:"productId"`
	Title         string    `json:"title"`
	Price         int64     `json:"price"`
	Stock         int       `json:"stock"`
	LowStockAlert *int      `json:"lowStockAlert,omitempty"`
	Color         *string   `json:"color,omitempty"`
	Images        []string  `json:"images"`
}

// LowStockVariant pairs a variant below its alert threshold with its product name.
type LowStockVariant struct {
	Variant
	ProductName string `json:"productName"`
}
