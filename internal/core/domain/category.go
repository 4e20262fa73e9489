package domain

import (
	"errors"
	"time"
)

var ErrCategoryNameRequired = errors.New("category name is required")

// Category is a shared taxonomy entry. Categories carry no owner and are
// visible to every user.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
