package validation

// LuhnIsValid reports whether a string of ASCII digits passes the Luhn
// mod-10 checksum. Walking from the least significant digit, every second
// digit (indices 1, 3, 5, ... from the right) is doubled, with 9 subtracted
// when the doubling exceeds 9; the number is valid iff the digit sum is a
// multiple of 10. Callers must pass digits only.
func LuhnIsValid(number string) bool {
	total := 0
	for i := 0; i < len(number); i++ {
		n := int(number[len(number)-1-i] - '0')
		if i%2 == 1 {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		total += n
	}
	return total%10 == 0
}
