// Package inputval validates form input: e-mail addresses, Brazilian phone
// numbers, CEPs and state abbreviations.
package inputval

import (
	"strings"

	"github.com/flicapp/flicapp/internal/app/system/normalize"
)

const emailLocalSpecials = "!#$%&'*+/=?^_`{|}~-."

// IsValidEmail reports whether s is a bare addr-spec (no display name) with
// a dot-atom local part and a hostname domain. Single-label domains are
// accepted.
func IsValidEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if !validDots(local) || !validDots(domain) {
		return false
	}
	for _, r := range local {
		if !isAlnum(r) && !strings.ContainsRune(emailLocalSpecials, r) {
			return false
		}
	}
	for _, label := range strings.Split(domain, ".") {
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			if !isAlnum(r) && r != '-' {
				return false
			}
		}
	}
	return true
}

func validDots(s string) bool {
	return s != "" && !strings.HasPrefix(s, ".") && !strings.HasSuffix(s, ".") && !strings.Contains(s, "..")
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// IsValidPhone reports whether s is a Brazilian landline or mobile number
// with area code: 10 or 11 digits after stripping punctuation, an area code
// of 11..99, and mobiles starting with 9.
func IsValidPhone(s string) bool {
	d := normalize.Digits(s)
	if strings.HasPrefix(d, "55") && (len(d) == 12 || len(d) == 13) {
		d = d[2:]
	}
	if len(d) != 10 && len(d) != 11 {
		return false
	}
	if d[0] == '0' || d[1] == '0' {
		return false
	}
	if len(d) == 11 && d[2] != '9' {
		return false
	}
	return true
}

// IsValidCEP reports whether s holds exactly 8 digits, with or without the
// hyphen.
func IsValidCEP(s string) bool {
	s = strings.TrimSpace(s)
	d := normalize.Digits(s)
	if len(d) != 8 {
		return false
	}
	return s == d || s == d[:5]+"-"+d[5:]
}

var ufs = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {},
	"ES": {}, "GO": {}, "MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {},
	"PB": {}, "PR": {}, "PE": {}, "PI": {}, "RJ": {}, "RN": {}, "RS": {},
	"RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// IsValidUF reports whether s is one of the 27 federative unit codes.
func IsValidUF(s string) bool {
	_, ok := ufs[normalize.UF(s)]
	return ok
}

// IsValidRating reports whether n is a 1..5 star rating.
func IsValidRating(n int) bool {
	return n >= 1 && n <= 5
}
