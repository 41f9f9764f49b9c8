package model

import (
	"time"

	"github.com/google/uuid"
)

// Delivery status values recorded on a receipt log entry.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// ReceiptLogEntry is the durable record of a completed order. Item data is
// denormalised at order time so the entry stays valid if the product is
// later edited or deleted. Entries are append-only and never mutated.
type ReceiptLogEntry struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	UserEmail       string      `json:"userEmail" db:"user_email"`
	Username        string      `json:"username" db:"username"`
	Items           []OrderItem `json:"items" db:"items"`
	TotalAmount     float64     `json:"totalAmount" db:"total_amount"`
	Timestamp       time.Time   `json:"timestamp" db:"timestamp"`
	ReceiptFilename string      `json:"receiptFilename" db:"receipt_filename"`
	EmailStatus     string      `json:"emailStatus" db:"email_status"`
}
