package validation

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeBasic applies Unicode NFKC normalization and strips leading and
// trailing whitespace. Every field validator runs its input through this
// first, so visually equivalent character sequences (full-width digits,
// compatibility ligatures) collapse to one canonical form before any rule
// is checked. An empty or absent value normalizes to the empty string.
func NormalizeBasic(value string) string {
	return strings.TrimSpace(norm.NFKC.String(value))
}

// collapseSpaces reduces internal whitespace runs to single ASCII spaces.
func collapseSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// stripChars removes every occurrence of the given characters.
func stripChars(value string, chars ...string) string {
	for _, c := range chars {
		value = strings.ReplaceAll(value, c, "")
	}
	return value
}
