package integration

import (
	"fmt"
	"time"
)

// TestUser generates unique test user credentials using timestamp
func TestUser(suffix string) (email, password string) {
	ts := time.Now().UnixNano()
	email = fmt.Sprintf("test-%d-%s@example.com", ts, suffix)
	password = "TestPassword123!"
	return
}

// ValidCheckoutPayload returns a checkout request body that passes card
// validation. The card number is a Luhn-valid Visa test number.
func ValidCheckoutPayload(qty int, billingEmail string) map[string]interface{} {
	return map[string]interface{}{
		"qty":           qty,
		"card_number":   "4532 0151 1283 0366",
		"exp_date":      "12/30",
		"cvv":           "123",
		"name_on_card":  "Test User",
		"billing_email": billingEmail,
	}
}
