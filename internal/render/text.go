package render

import (
	"fmt"
	"strings"

	"github.com/GeoKM/kmatt-invoice/internal/domain"
)

const dateLayout = "Jan 2, 2006"

// Fixed payment instruction block printed on every invoice.
var paymentInstructions = []string{
	"Please Pay to by bank transfer to our bank account Commonwealth Bank Tuggeranong.",
	"Account Name - James Matthews",
	"BSB - 062692",
	"Acct Number - 33455315",
}

const paymentTerms = "Payment Terms: Net 30 Days"
const termsLine = "Strictly 30 Days Net Full Payment Please"

// Text renders an invoice as a fixed-layout plain-text document:
// company header, bill-to block, itemized table, totals, notes and
// the payment instruction block.
func Text(company domain.Company, inv *domain.Invoice) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", company.Name)
	fmt.Fprintf(&b, "A.B.N. %s\n", company.ABN)
	fmt.Fprintf(&b, "%s\nPh. %s\n", company.Address, company.Phone)
	fmt.Fprintf(&b, "Invoice # %s\n", inv.Number)
	fmt.Fprintf(&b, "Date: %s\n\n", inv.Date.Format(dateLayout))

	b.WriteString("Bill To:\n")
	for _, line := range strings.Split(inv.Customer.Name, "\n") {
		fmt.Fprintf(&b, "%s\n", line)
	}
	fmt.Fprintf(&b, "%s\n", inv.Customer.Address)
	fmt.Fprintf(&b, "Phone | %s\n", inv.Customer.Phone)

	// Contact person and email can both be multi-line; the first line
	// of each goes on the Attn line, the rest are indented below it.
	contactLines := strings.Split(inv.Customer.ContactPerson, "\n")
	emailLines := strings.Split(inv.Customer.Email, "\n")
	fmt.Fprintf(&b, "Attn - %s (%s), %s\n", contactLines[0], inv.Customer.ContactPhone, emailLines[0])
	for _, line := range contactLines[1:] {
		fmt.Fprintf(&b, "       %s\n", line)
	}
	for _, line := range emailLines[1:] {
		fmt.Fprintf(&b, "       %s\n", line)
	}

	fmt.Fprintf(&b, "%s\n", paymentTerms)
	fmt.Fprintf(&b, "Due Date: %s\n", inv.DueDate.Format(dateLayout))
	fmt.Fprintf(&b, "Balance Due: AU $%s\n\n", inv.Total.StringFixed(2))

	b.WriteString("#\tItem\t\t\tQty\tRate\tAmount\n")
	for idx, item := range inv.Items {
		fmt.Fprintf(&b, "%-3d\t%-30s\t%2d\tAU $%6s\tAU $%6s\n",
			idx+1, item.Description, item.Quantity,
			item.Rate.StringFixed(2), item.Amount.StringFixed(2))
	}

	fmt.Fprintf(&b, "\n%30s AU $%s\n", "Subtotal:", inv.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "%30s AU $0.00\n", "Tax (0%):")
	fmt.Fprintf(&b, "Notes:\n%s\n\n", inv.Notes)

	for _, line := range paymentInstructions {
		fmt.Fprintf(&b, "%s\n", line)
	}
	fmt.Fprintf(&b, "\nTerms:\n%s\n", termsLine)

	return b.String()
}
