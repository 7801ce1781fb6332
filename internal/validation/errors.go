package validation

import "errors"

// Sentinel errors for every field rule. Each carries the fixed,
// human-readable message rendered to the user; the orchestrators copy the
// message into FormResult.Errors rather than propagating the error value.
var (
	ErrCardNotDigits = errors.New("Card number must contain digits only")
	ErrCardLength    = errors.New("Card number must be between 13 and 19 digits")
	ErrCardChecksum  = errors.New("Invalid card number (Luhn check failed)")

	ErrExpFormat  = errors.New("Expiration date must be in MM/YY format")
	ErrCardExpired = errors.New("Card is expired")
	ErrExpTooFar  = errors.New("Expiration date too far in future")

	ErrCVVFormat = errors.New("CVV must be 3 or 4 digits")

	ErrEmailRequired = errors.New("Email is required")
	ErrEmailTooLong  = errors.New("Email too long")
	ErrEmailFormat   = errors.New("Invalid email format")
	ErrEmailTaken    = errors.New("Email is already registered")

	ErrNameRequired = errors.New("Name is required")
	ErrNameLength   = errors.New("Name must be between 2 and 60 characters")
	ErrNameCharset  = errors.New("Name contains invalid characters")

	ErrPhoneFormat = errors.New("Phone number must be 7 to 15 digits")

	ErrPasswordRequired   = errors.New("Password is required")
	ErrPasswordTooShort   = errors.New("Password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("Password must be at most 64 characters")
	ErrPasswordWhitespace = errors.New("Password must not contain whitespace")
	ErrPasswordUpper      = errors.New("Password must contain at least one uppercase letter")
	ErrPasswordLower      = errors.New("Password must contain at least one lowercase letter")
	ErrPasswordDigit      = errors.New("Password must contain at least one digit")
	ErrPasswordSpecial    = errors.New("Password must contain at least one special character")
	ErrPasswordIsEmail    = errors.New("Password must not match your email address")
	ErrPasswordMismatch   = errors.New("Passwords do not match")
)
