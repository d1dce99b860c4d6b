package blogs

import "time"

type Blog struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	CoverImage string    `json:"coverImage,omitempty"`
	Body       string    `json:"body"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type BlogForm struct {
	Title      string `json:"title" validate:"required,max=200"`
	CoverImage string `json:"coverImage" validate:"omitempty,url"`
	Body       string `json:"body" validate:"required"`
	Published  bool   `json:"published"`
}
