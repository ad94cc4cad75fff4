package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GeoKM/kmatt-invoice/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

// ErrPDFGeneration is returned when the PDF document cannot be
// produced or written
var ErrPDFGeneration = errors.New("pdf generation failed")

const (
	pdfFontSize   = 10.0
	pdfLineHeight = 4.23
	pdfLeftX      = 15.0
	pdfRightX     = 150.0
)

// PDF renders an invoice as a one-page A4 document with the same
// informational content as Text and writes it to path. It returns the
// path on success.
func PDF(company domain.Company, inv *domain.Invoice, path string) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice #%s", inv.Number), false)
	pdf.AddPage()

	y := 17.0
	prose := func(x float64, text string) {
		pdf.SetFont("Helvetica", "", pdfFontSize)
		pdf.Text(x, y, text)
	}
	mono := func(x float64, text string) {
		pdf.SetFont("Courier", "", pdfFontSize)
		pdf.Text(x, y, text)
	}

	// Company header
	prose(pdfLeftX, company.Name)
	y += pdfLineHeight
	prose(pdfLeftX, "A.B.N. "+company.ABN)
	y += pdfLineHeight
	prose(pdfLeftX, company.Address)
	y += pdfLineHeight
	prose(pdfLeftX, "Ph: "+company.Phone)
	y += pdfLineHeight
	prose(pdfLeftX, fmt.Sprintf("Invoice #%s", inv.Number))
	y += pdfLineHeight
	prose(pdfLeftX, "Date: "+inv.Date.Format(dateLayout))
	y += 2 * pdfLineHeight

	// Bill To block on the left, payment terms on the right, both
	// starting at the same height.
	billToTop := y
	prose(pdfLeftX, "Bill To:")
	y += pdfLineHeight
	for _, line := range splitLines(inv.Customer.Name) {
		prose(pdfLeftX, line)
		y += pdfLineHeight
	}
	prose(pdfLeftX, inv.Customer.Address)
	y += pdfLineHeight
	prose(pdfLeftX, "Phone: "+inv.Customer.Phone)
	y += pdfLineHeight

	contactLines := splitLines(inv.Customer.ContactPerson)
	emailLines := splitLines(inv.Customer.Email)
	for _, line := range wrapText("Attn - "+contactLines[0], 80) {
		prose(pdfLeftX, line)
		y += pdfLineHeight
	}
	prose(pdfLeftX, "Contact Phone: "+inv.Customer.ContactPhone)
	y += pdfLineHeight
	for _, line := range wrapText("Email: "+emailLines[0], 80) {
		prose(pdfLeftX, line)
		y += pdfLineHeight
	}
	for _, line := range contactLines[1:] {
		prose(pdfLeftX, "       "+line)
		y += pdfLineHeight
	}
	for _, line := range emailLines[1:] {
		prose(pdfLeftX, "       "+line)
		y += pdfLineHeight
	}
	billToBottom := y

	y = billToTop
	prose(pdfRightX, paymentTerms)
	y += pdfLineHeight
	prose(pdfRightX, "Due Date: "+inv.DueDate.Format(dateLayout))
	y += pdfLineHeight
	prose(pdfRightX, "Balance Due: AU $"+inv.Total.StringFixed(2))
	y += pdfLineHeight

	if billToBottom > y {
		y = billToBottom
	}
	y += 2 * pdfLineHeight

	// Item table in a monospaced font so the columns line up.
	mono(pdfLeftX, fmt.Sprintf("%3s  %-50s %6s %12s %12s", "#", "Item", "Qty", "Rate", "Amount"))
	y += pdfLineHeight
	for idx, item := range inv.Items {
		descLines := wrapText(item.Description, 50)
		for i, line := range descLines {
			if i == 0 {
				mono(pdfLeftX, fmt.Sprintf("%3d  %-50s %6d %12s %12s",
					idx+1, line, item.Quantity,
					"AU $"+item.Rate.StringFixed(2), "AU $"+item.Amount.StringFixed(2)))
			} else {
				mono(pdfLeftX, fmt.Sprintf("%3s  %-50s", "", line))
			}
			y += pdfLineHeight
		}
	}

	y += 3 * pdfLineHeight
	prose(73.0, "Total:")
	mono(87.0, "AU $"+inv.Total.StringFixed(2))
	y += 2 * pdfLineHeight

	prose(pdfLeftX, "Notes:")
	y += pdfLineHeight
	prose(pdfLeftX, inv.Notes)
	y += 2 * pdfLineHeight

	for _, line := range paymentInstructions {
		prose(pdfLeftX, line)
		y += pdfLineHeight
	}
	prose(pdfLeftX, "Terms:")
	y += pdfLineHeight
	prose(pdfLeftX, termsLine)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return path, nil
}

// splitLines never returns an empty slice, so index 0 is safe even
// for empty input.
func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
