// Package normalize canonicalizes user input before it is stored or compared.
package normalize

import (
	"strings"
	"unicode"
)

// Email trims and lower-cases an e-mail address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner whitespace. Case is kept.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Status trims and lower-cases an account status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lower-cases a role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RequestStatus trims and upper-cases a provider request status.
func RequestStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a query-string value, keeping case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Digits keeps only the ASCII digits of s. Phone numbers and CEPs are
// stored this way.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UF trims and upper-cases a state abbreviation.
func UF(s string) string {
	return strings.ToUpper(strings.TrimFunc(s, unicode.IsSpace))
}
