package datatable

import (
	"strings"
	"time"

	"github.com/flicapp/flicapp/internal/app/system/search"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is displayed for missing values.
const Placeholder = "-"

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// Display formats a raw value for a cell. Missing values and zero times
// render as Placeholder; times render as dates.
func Display(v any) string {
	switch x := v.(type) {
	case nil:
		return Placeholder
	case time.Time:
		if x.IsZero() {
			return Placeholder
		}
		return FormatDate(x)
	case *time.Time:
		if x == nil || x.IsZero() {
			return Placeholder
		}
		return FormatDate(*x)
	}
	s := search.Stringify(v)
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// FormatCurrency formats an amount in centavos as Brazilian reais,
// e.g. 123456 → "R$ 1.234,56".
func FormatCurrency(cents int64) string {
	return brl.Sprintf("R$ %v", number.Decimal(float64(cents)/100, number.Scale(2)))
}

// FormatDecimal formats v with the given number of decimals in pt-BR
// notation, e.g. 1234.5 with 1 decimal → "1.234,5".
func FormatDecimal(v float64, decimals int) string {
	return brl.Sprint(number.Decimal(v, number.Scale(decimals)))
}

// FormatDate formats t as dd/mm/yyyy in its own location.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(dateLayout)
}

// FormatDateTime formats t as dd/mm/yyyy hh:mm in its own location.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(dateTimeLayout)
}

// FormatPhone formats a Brazilian phone number held as digits:
// 11987654321 → "(11) 98765-4321", 1133334444 → "(11) 3333-4444".
// Other lengths are returned unchanged and empty input renders as
// Placeholder.
func FormatPhone(digits string) string {
	switch len(digits) {
	case 0:
		return Placeholder
	case 10:
		return "(" + digits[:2] + ") " + digits[2:6] + "-" + digits[6:]
	case 11:
		return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
	}
	return digits
}

// FormatCEP formats an 8-digit postal code as "01310-100".
func FormatCEP(digits string) string {
	if len(digits) != 8 {
		if digits == "" {
			return Placeholder
		}
		return digits
	}
	return digits[:5] + "-" + digits[5:]
}
