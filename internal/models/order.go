package models

import "time"

// Order statuses.
const (
	OrderStatusPaid = "PAID"
)

// ServiceFeeUSD is the flat per-order service fee.
const ServiceFeeUSD = 5.00

// Order is a completed ticket purchase. Payment holds the sanitized
// snapshot produced by the validation engine; it never includes a CVV.
type Order struct {
	ID         string
	UserEmail  string
	EventID    int64
	EventTitle string
	Qty        int
	UnitPrice  float64
	ServiceFee float64
	Total      float64
	Status     string
	Payment    PaymentSnapshot
	CreatedAt  time.Time
}

// PaymentSnapshot is the cleaned, storage-safe subset of payment fields.
type PaymentSnapshot struct {
	Card         string `json:"card"`
	ExpDate      string `json:"exp_date"`
	NameOnCard   string `json:"name_on_card"`
	BillingEmail string `json:"billing_email"`
}
