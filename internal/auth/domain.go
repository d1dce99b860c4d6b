package auth

import "time"

// User represents an account able to authenticate against the API.
type User struct {
	ID            int64     `json:"id"`
	Phone         string    `json:"phone"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	WalletBalance int64     `json:"walletBalance"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
