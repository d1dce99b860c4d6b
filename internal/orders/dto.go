package orders

import (
	"time"

	"github.com/google/uuid"
)

type CartLine struct {
	VariantID uuid.UUID `json:"variantId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

type ShippingAddressForm struct {
	FullName    string `json:"fullName" validate:"required,max=120"`
	Phone       string `json:"phone" validate:"required,max=20"`
	Thana       string `json:"thana" validate:"required,max=80"`
	District    string `json:"district" validate:"required,max=80"`
	FullAddress string `json:"fullAddress" validate:"required,max=500"`
}

type CreateOrderRequest struct {
	Items           []CartLine          `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressForm `json:"shippingAddress" validate:"required"`
	DeliveryCharge  int64               `json:"deliveryCharge" validate:"gte=0"`
	UseWallet       bool                `json:"useWallet"`
}

// AdminCreateOrderRequest places an order on behalf of a customer.
type AdminCreateOrderRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
	CreateOrderRequest
}

type UpdateStatusRequest struct {
	OrderID string      `json:"orderId" validate:"required"`
	Status  OrderStatus `json:"status" validate:"required"`
}

// AdminListFilter narrows the admin order listing.
type AdminListFilter struct {
	Status *OrderStatus
	Day    *time.Time
}
