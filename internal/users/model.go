package users

import "time"

// Account is the admin-facing view of a user row. Password hashes
// never leave the repository.
type Account struct {
	ID            int64     `json:"id"`
	Phone         string    `json:"phone"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	WalletBalance int64     `json:"walletBalance"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CreditWalletRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Note   string `json:"note" validate:"max=500"`
}
