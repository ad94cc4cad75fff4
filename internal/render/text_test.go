package render

import (
	"strings"
	"testing"
	"time"

	"github.com/GeoKM/kmatt-invoice/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleInvoice() *domain.Invoice {
	return &domain.Invoice{
		Number:  "AC76",
		Date:    time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local),
		DueDate: time.Date(2025, 4, 13, 0, 0, 0, 0, time.Local),
		Customer: domain.Customer{
			Name:          "Acme",
			Address:       "1 Example St",
			Phone:         "0400-000000",
			ContactPerson: "Jane Roe",
			ContactPhone:  "0400-111111",
			Email:         "jane@acme.example",
			Code:          "AC",
		},
		Items: []domain.InvoiceItem{
			{Description: "Window cleaning", Quantity: 3, Rate: decimal.NewFromFloat(10), Amount: decimal.NewFromFloat(30)},
			{Description: "Gutter clear", Quantity: 1, Rate: decimal.NewFromFloat(5), Amount: decimal.NewFromFloat(5)},
		},
		Subtotal: decimal.NewFromFloat(35),
		Total:    decimal.NewFromFloat(35),
		Notes:    "first visit",
	}
}

func TestText(t *testing.T) {
	out := Text(domain.DefaultCompany(), sampleInvoice())

	for _, want := range []string{
		"JMATTS CLEANING Canberra",
		"A.B.N. 78734213681",
		"Invoice # AC76",
		"Date: Mar 14, 2025",
		"Bill To:",
		"Acme",
		"Phone | 0400-000000",
		"Attn - Jane Roe (0400-111111), jane@acme.example",
		"Payment Terms: Net 30 Days",
		"Due Date: Apr 13, 2025",
		"Balance Due: AU $35.00",
		"Window cleaning",
		"Subtotal: AU $35.00",
		"Tax (0%): AU $0.00",
		"Notes:\nfirst visit",
		"BSB - 062692",
		"Strictly 30 Days Net Full Payment Please",
	} {
		assert.Contains(t, out, want)
	}
}

func TestText_MultiLineContact(t *testing.T) {
	inv := sampleInvoice()
	inv.Customer.ContactPerson = "Jane Roe\nSecond Contact"
	inv.Customer.Email = "jane@acme.example\nbilling@acme.example"

	out := Text(domain.DefaultCompany(), inv)

	assert.Contains(t, out, "Attn - Jane Roe (0400-111111), jane@acme.example")
	assert.Contains(t, out, "       Second Contact")
	assert.Contains(t, out, "       billing@acme.example")
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		max      int
		expected []string
	}{
		{
			name:     "short line untouched",
			in:       "hello world",
			max:      20,
			expected: []string{"hello world"},
		},
		{
			name:     "wraps at word boundary",
			in:       "one two three four",
			max:      9,
			expected: []string{"one two", "three", "four"},
		},
		{
			name:     "splits over-long word",
			in:       "abcdefghij",
			max:      4,
			expected: []string{"abcd", "efgh", "ij"},
		},
		{
			name:     "empty input",
			in:       "   ",
			max:      10,
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, wrapText(tc.in, tc.max))
		})
	}
}

func TestTextEndsWithTermsBlock(t *testing.T) {
	out := Text(domain.DefaultCompany(), sampleInvoice())
	assert.True(t, strings.HasSuffix(out, "Terms:\nStrictly 30 Days Net Full Payment Please\n"))
}
