package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// maxExpYearsAhead bounds how far in the future an expiration date may be.
const maxExpYearsAhead = 15

var (
	cardDigitsRe  = regexp.MustCompile(`^[0-9]+$`)
	cvvRe         = regexp.MustCompile(`^[0-9]{3,4}$`)
	expRe         = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	emailBasicRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nameAllowedRe = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ' -]+$`)
)

// PaymentForm carries raw checkout field inputs exactly as submitted.
type PaymentForm struct {
	CardNumber   string
	ExpDate      string
	CVV          string
	NameOnCard   string
	BillingEmail string
}

// ValidateCardNumber normalizes a card number, strips spaces and hyphens,
// and requires an all-digit string of 13 to 19 digits that passes the Luhn
// checksum. The three failure modes return distinct errors.
func ValidateCardNumber(cardNumber string) (string, error) {
	card := stripChars(NormalizeBasic(cardNumber), " ", "-")

	if !cardDigitsRe.MatchString(card) {
		return "", ErrCardNotDigits
	}
	if len(card) < 13 || len(card) > 19 {
		return "", ErrCardLength
	}
	if !LuhnIsValid(card) {
		return "", ErrCardChecksum
	}
	return card, nil
}

// ValidateExpDate requires MM/YY with month 01-12, interprets the year as
// 20YY, and rejects dates strictly before now's (year, month) or more than
// maxExpYearsAhead years out. The current month is still valid.
func ValidateExpDate(expDate string, now time.Time) (string, error) {
	exp := NormalizeBasic(expDate)

	if !expRe.MatchString(exp) {
		return "", ErrExpFormat
	}

	parts := strings.SplitN(exp, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])
	year += 2000

	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return "", ErrCardExpired
	}
	if year > now.Year()+maxExpYearsAhead {
		return "", ErrExpTooFar
	}
	return exp, nil
}

// ValidateCVV requires exactly 3 or 4 digits. The clean value is always
// empty: the CVV participates in error reporting but is never emitted for
// storage or downstream use.
func ValidateCVV(cvv string) (string, error) {
	if !cvvRe.MatchString(NormalizeBasic(cvv)) {
		return "", ErrCVVFormat
	}
	return "", nil
}

// ValidateNameOnCard normalizes the cardholder name, collapses internal
// whitespace runs, and requires 2-60 characters drawn from letters
// (including accented Latin), apostrophe, hyphen, and space.
func ValidateNameOnCard(nameOnCard string) (string, error) {
	return validateName(nameOnCard)
}

func validateName(raw string) (string, error) {
	name := collapseSpaces(NormalizeBasic(raw))

	if name == "" {
		return "", ErrNameRequired
	}
	if n := utf8.RuneCountInString(name); n < 2 || n > 60 {
		return "", ErrNameLength
	}
	if !nameAllowedRe.MatchString(name) {
		return "", ErrNameCharset
	}
	return name, nil
}

// ValidateBillingEmail normalizes and lowercases an email address,
// requiring a nonempty local part, a single @, a dotted domain, no
// embedded whitespace, and at most 254 characters.
func ValidateBillingEmail(billingEmail string) (string, error) {
	return validateEmail(billingEmail)
}

func validateEmail(raw string) (string, error) {
	email := strings.ToLower(NormalizeBasic(raw))

	if email == "" {
		return "", ErrEmailRequired
	}
	if utf8.RuneCountInString(email) > 254 {
		return "", ErrEmailTooLong
	}
	if !emailBasicRe.MatchString(email) || strings.Count(email, "@") != 1 {
		return "", ErrEmailFormat
	}
	return email, nil
}

// ValidatePaymentForm runs every payment field validator independently and
// collects the combined outcome. No field short-circuits another: all five
// fields are validated and every applicable error is reported in one pass,
// so the caller can render a complete error summary in a single round trip.
// Clean always carries card, exp_date, name_on_card, and billing_email
// entries (empty on failure); the CVV is never included. The caller
// supplies now so that expiration checks stay deterministic.
func ValidatePaymentForm(form PaymentForm, now time.Time) FormResult {
	result := newFormResult()

	card, err := ValidateCardNumber(form.CardNumber)
	result.setField("card", "card_number", card, err)

	exp, err := ValidateExpDate(form.ExpDate, now)
	result.setField("exp_date", "exp_date", exp, err)

	if _, err := ValidateCVV(form.CVV); err != nil {
		result.Errors["cvv"] = err.Error()
	}

	name, err := ValidateNameOnCard(form.NameOnCard)
	result.setField("name_on_card", "name_on_card", name, err)

	email, err := ValidateBillingEmail(form.BillingEmail)
	result.setField("billing_email", "billing_email", email, err)

	return result
}
