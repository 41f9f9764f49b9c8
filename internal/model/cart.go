package model

import "time"

// CartLine is one (user, product, quantity) record in a user's cart.
// A line never persists with a quantity of zero or less; a decrement
// that would reach zero removes the line instead.
type CartLine struct {
	UserEmail string    `json:"userEmail" db:"user_email"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartViewItem is a cart line joined against the live catalogue.
type CartViewItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// CartView is the rendered state of a user's cart. Lines whose product
// no longer exists in the catalogue are excluded.
type CartView struct {
	Items []CartViewItem `json:"items"`
	Total float64        `json:"total"`
}
