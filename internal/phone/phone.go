// Package phone normalizes user-supplied phone numbers into the two forms
// the service needs: a canonical digit key for storage and equality, and a
// dispatchable address for the SMS gateway.
package phone

import "strings"

func digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Canonical returns the storage key for a raw phone string: digits only,
// 11 digits with a leading 1 for North-American numbers. Other digit
// counts pass through as-is (best effort international); empty or
// digit-free input returns "".
func Canonical(raw string) string {
	d := digits(raw)
	switch {
	case d == "":
		return ""
	case len(d) == 10:
		return "1" + d
	default:
		return d
	}
}

// Dispatch returns the +-prefixed address used to deliver messages, or ""
// when the input carries no digits.
func Dispatch(raw string) string {
	d := digits(raw)
	switch {
	case d == "":
		return ""
	case len(d) == 10:
		return "+1" + d
	default:
		return "+" + d
	}
}

// ValidNANP reports whether raw is a North-American number: ten digits,
// optionally prefixed with country code 1, in any formatting.
func ValidNANP(raw string) bool {
	d := digits(raw)
	if len(d) == 10 {
		return true
	}
	return len(d) == 11 && strings.HasPrefix(d, "1")
}
