package datatable

import (
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplay(t *testing.T) {
	ts := time.Date(2026, 3, 4, 9, 5, 0, 0, time.UTC)
	var nilTime *time.Time

	assert.Equal(t, Placeholder, Display(nil))
	assert.Equal(t, Placeholder, Display(""))
	assert.Equal(t, Placeholder, Display("   "))
	assert.Equal(t, Placeholder, Display(time.Time{}))
	assert.Equal(t, Placeholder, Display(nilTime))
	assert.Equal(t, "04/03/2026", Display(ts))
	assert.Equal(t, "Ana", Display("Ana"))
	assert.Equal(t, "0", Display(0))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2026, 12, 1, 18, 45, 0, 0, time.UTC)
	assert.Equal(t, "01/12/2026", FormatDate(ts))
	assert.Equal(t, "01/12/2026 18:45", FormatDateTime(ts))
	assert.Equal(t, Placeholder, FormatDateTime(time.Time{}))
}

func TestFormatCurrency(t *testing.T) {
	got := FormatCurrency(1250)
	assert.True(t, strings.HasPrefix(got, "R$ "), got)
	assert.Contains(t, got, "12,50")

	assert.Contains(t, FormatCurrency(0), "0,00")
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "4,5", FormatDecimal(4.5, 1))
	assert.Equal(t, "1.234,5", FormatDecimal(1234.5, 1))
}

func TestColumnCell(t *testing.T) {
	plain := Column[person]{Key: "name", Value: func(p person) any { return p.Name }}
	assert.Equal(t, template.HTML("a &amp; b"), plain.Cell(person{Name: "a & b"}))
	assert.Equal(t, template.HTML(Placeholder), plain.Cell(person{}))

	custom := Column[person]{
		Key:    "name",
		Value:  func(p person) any { return p.Name },
		Render: func(p person) template.HTML { return "<b>" + template.HTML(p.Name) + "</b>" },
	}
	assert.Equal(t, template.HTML("<b>Ana</b>"), custom.Cell(person{Name: "Ana"}))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(11) 98765-4321", FormatPhone("11987654321"))
	assert.Equal(t, "(11) 3333-4444", FormatPhone("1133334444"))
	assert.Equal(t, "123", FormatPhone("123"))
	assert.Equal(t, Placeholder, FormatPhone(""))
}

func TestFormatCEP(t *testing.T) {
	assert.Equal(t, "01310-100", FormatCEP("01310100"))
	assert.Equal(t, "0131", FormatCEP("0131"))
	assert.Equal(t, Placeholder, FormatCEP(""))
}
