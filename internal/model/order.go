package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is one line of an order snapshot. Price is the unit price
// captured from the catalogue at checkout time, not the cart-display price.
type OrderItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

// OrderSnapshot is the point-in-time summary of an order computed during
// checkout. It is ephemeral: receipts and the receipt log are derived from
// it, but the snapshot itself is never persisted.
type OrderSnapshot struct {
	OrderID   uuid.UUID   `json:"orderId"`
	UserEmail string      `json:"userEmail"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderConfirmation is returned to the caller of ConfirmOrder for
// user-facing messaging. EmailSent reports the best-effort delivery
// outcome; the order itself is placed either way.
type OrderConfirmation struct {
	Snapshot        OrderSnapshot `json:"order"`
	ReceiptFilename string        `json:"receiptFilename,omitempty"`
	EmailSent       bool          `json:"emailSent"`
}
