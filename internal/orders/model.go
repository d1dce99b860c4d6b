package orders

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the admin-controlled lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ShippingAddress is the by-value snapshot of the destination taken at
// placement time. Later edits to the customer's address book never touch it.
type ShippingAddress struct {
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	Thana       string `json:"thana"`
	District    string `json:"district"`
	FullAddress string `json:"fullAddress"`
}

// Order is the immutable record of a placed order. Amounts are in currency
// minor units. Only Status may change after creation.
type Order struct {
	ID             int64           `json:"id"`
	OrderID        string          `json:"orderId"`
	UserID         int64           `json:"userId"`
	Shipping       ShippingAddress `json:"shippingAddress"`
	Items          []OrderItem     `json:"items"`
	SubTotal       int64           `json:"subTotal"`
	DeliveryCharge int64           `json:"deliveryCharge"`
	TotalAmount    int64           `json:"totalAmount"`
	WalletDiscount int64           `json:"walletDiscount"`
	PayableAmount  int64           `json:"payableAmount"`
	Status         OrderStatus     `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// OrderItem is a line of an order. VariantID is nullable so deleting a
// variant later cannot corrupt history; the snapshots carry what was bought.
type OrderItem struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"orderId"`
	VariantID       *uuid.UUID      `json:"variantId,omitempty"`
	Quantity        int             `json:"quantity"`
	TitleAtPurchase string          `json:"titleAtPurchase"`
	PriceAtPurchase int64           `json:"priceAtPurchase"`
	Variant         *CurrentVariant `json:"variant,omitempty"`
}

// CurrentVariant is the referenced variant's live catalog data, attached to
// customer listings.
type CurrentVariant struct {
	Title  string   `json:"title"`
	Price  int64    `json:"price"`
	Stock  int      `json:"stock"`
	Color  *string  `json:"color,omitempty"`
	Images []string `json:"images"`
}
