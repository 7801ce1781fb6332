package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 64

	// passwordSpecials is the fixed set of accepted special characters.
	passwordSpecials = "!@#$%^&*()-_=+[]{}<>?"
)

// RegistrationForm carries raw signup field inputs exactly as submitted.
type RegistrationForm struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// ValidateFullName applies the same normalization, whitespace collapsing,
// length, and character-set rules as the cardholder name.
func ValidateFullName(fullName string) (string, error) {
	return validateName(fullName)
}

// ValidateRegistrationEmail validates the address like a billing email and
// additionally rejects it when it case-insensitively matches an email in
// the supplied snapshot of existing users. The snapshot comes from the
// caller; this package performs no lookups of its own.
func ValidateRegistrationEmail(email string, existingEmails []string) (string, error) {
	clean, err := validateEmail(email)
	if err != nil {
		return "", err
	}
	for _, existing := range existingEmails {
		if strings.ToLower(strings.TrimSpace(existing)) == clean {
			return "", ErrEmailTaken
		}
	}
	return clean, nil
}

// ValidatePhone strips spaces, hyphens, and parentheses, then requires an
// all-digit remainder of 7 to 15 digits.
func ValidatePhone(phone string) (string, error) {
	digits := stripChars(NormalizeBasic(phone), " ", "-", "(", ")")

	if digits == "" || !cardDigitsRe.MatchString(digits) {
		return "", ErrPhoneFormat
	}
	if len(digits) < 7 || len(digits) > 15 {
		return "", ErrPhoneFormat
	}
	return digits, nil
}

// ValidatePassword enforces the password policy with first-failure-wins
// precedence: required, minimum length, maximum length, no whitespace,
// uppercase, lowercase, digit, special character, not equal to the cleaned
// registration email, and finally confirmation match. cleanEmail must be
// the already-normalized (lowercased) email; the comparison deliberately
// happens after email normalization.
func ValidatePassword(password, confirmPassword, cleanEmail string) (string, error) {
	pw := NormalizeBasic(password)

	if pw == "" {
		return "", ErrPasswordRequired
	}
	if n := utf8.RuneCountInString(pw); n < minPasswordLen {
		return "", ErrPasswordTooShort
	} else if n > maxPasswordLen {
		return "", ErrPasswordTooLong
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsSpace(r):
			return "", ErrPasswordWhitespace
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return "", ErrPasswordUpper
	}
	if !hasLower {
		return "", ErrPasswordLower
	}
	if !hasDigit {
		return "", ErrPasswordDigit
	}
	if !hasSpecial {
		return "", ErrPasswordSpecial
	}
	if cleanEmail != "" && pw == cleanEmail {
		return "", ErrPasswordIsEmail
	}
	if confirmPassword != "" && pw != NormalizeBasic(confirmPassword) {
		return "", ErrPasswordMismatch
	}
	return pw, nil
}

// ValidateRegistrationForm runs every registration field validator
// independently, mirroring ValidatePaymentForm's contract: all fields are
// checked, every applicable error is collected, and Clean is always
// populated with best-effort sanitized values. The password is checked
// against the cleaned email even when the email itself failed other rules,
// so a duplicate address still surfaces a password-equals-email error.
func ValidateRegistrationForm(form RegistrationForm, existingEmails []string) FormResult {
	result := newFormResult()

	name, err := ValidateFullName(form.FullName)
	result.setField("full_name", "full_name", name, err)

	email, err := ValidateRegistrationEmail(form.Email, existingEmails)
	result.setField("email", "email", email, err)

	phone, err := ValidatePhone(form.Phone)
	result.setField("phone", "phone", phone, err)

	// The email comparison uses the normalized form regardless of whether
	// the address passed its own validation.
	cleanEmail := strings.ToLower(NormalizeBasic(form.Email))
	password, err := ValidatePassword(form.Password, form.ConfirmPassword, cleanEmail)
	result.setField("password", "password", password, err)

	return result
}
