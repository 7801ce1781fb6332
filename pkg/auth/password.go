package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost balances hash strength against login latency.
const BcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt. Password policy
// (length, character classes) is enforced upstream by the validation
// engine; this function only refuses the empty string.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// ComparePassword checks a plaintext password against a stored hash.
func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
