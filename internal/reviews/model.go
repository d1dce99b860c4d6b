package reviews

import "time"

// Review is a customer's verdict on one product. One review per user
// per product, enforced by a unique index.
type Review struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"productId"`
	UserID     int64     `json:"userId"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReviewForm struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}
