package addresses

import "time"

// Address is one entry in a customer's address book. Orders copy the
// fields by value at checkout so edits here never touch history.
type Address struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	FullName    string    `json:"fullName"`
	Phone       string    `json:"phone"`
	Thana       string    `json:"thana"`
	District    string    `json:"district"`
	FullAddress string    `json:"fullAddress"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type AddressForm struct {
	FullName    string `json:"fullName" validate:"required,max=120"`
	Phone       string `json:"phone" validate:"required,max=20"`
	Thana       string `json:"thana" validate:"required,max=80"`
	District    string `json:"district" validate:"required,max=80"`
	FullAddress string `json:"fullAddress" validate:"required,max=500"`
}
