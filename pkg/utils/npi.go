package utils

import "strings"

// NormalizeNPI reduces a raw identifier-like value to a canonical 10-digit
// NPI. Spreadsheet exports mangle NPIs in two common ways: numeric cells drop
// leading zeros, and formula artifacts prepend extra digits. Both are
// repaired here: digit strings longer than 10 keep their last 10 characters,
// and 8-9 digit strings are left-padded with zeros.
//
// Returns the canonical NPI and true, or "" and false when the value cannot
// be reduced to exactly 10 digits. The function is pure: no I/O, no state.
func NormalizeNPI(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if len(digits) >= 8 && len(digits) < 10 {
		digits = strings.Repeat("0", 10-len(digits)) + digits
	}

	if len(digits) != 10 {
		return "", false
	}
	return digits, true
}
