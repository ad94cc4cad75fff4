package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is the singleton business profile printed on every invoice.
// It is created once with fixed defaults and edited in place; it is
// never deleted.
type Company struct {
	Name    string `json:"name"`
	ABN     string `json:"abn"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// DefaultCompany returns the profile a fresh data file starts with.
func DefaultCompany() Company {
	return Company{
		Name:    "JMATTS CLEANING Canberra",
		ABN:     "78734213681",
		Address: "40 Wyndham Avenue Denman Prospect, ACT, 2611",
		Phone:   "0403-491446",
	}
}

// Customer is keyed by Name in the registry. Code is a 2-3 letter
// uppercase prefix used to build invoice numbers; it must be unique
// across all customers.
type Customer struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`
	ContactPhone  string `json:"contact_phone"`
	Email         string `json:"email"`
	Code          string `json:"code"`
}

// InvoiceItem is a single billed line. Amount is always recomputed as
// Quantity x Rate; caller-supplied amounts are never trusted.
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice holds a deep snapshot of the owning customer taken at
// creation time, so later customer edits never rewrite historical
// invoices. Number is immutable once assigned.
type Invoice struct {
	Number   string          `json:"invoice_number"`
	Date     time.Time       `json:"date"`
	DueDate  time.Time       `json:"due_date"`
	Customer Customer        `json:"customer"`
	Items    []InvoiceItem   `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
	Notes    string          `json:"notes"`
	Paid     bool            `json:"paid"`
}

// Clone returns a deep copy of the invoice.
func (inv Invoice) Clone() Invoice {
	out := inv
	out.Items = make([]InvoiceItem, len(inv.Items))
	copy(out.Items, inv.Items)
	return out
}

// Aggregate is the whole persisted state: the company profile, the
// customer registry keyed by name, the invoice registry keyed by
// invoice number, and the last-issued sequence suffix per customer
// code. It has exactly one on-disk representation and is only mutated
// through the record operations in internal/service.
type Aggregate struct {
	Company         Company             `json:"company"`
	Customers       map[string]Customer `json:"customers"`
	Invoices        map[string]Invoice  `json:"invoices"`
	LastInvoiceNums map[string]int      `json:"last_invoice_nums"`
}

// NewAggregate returns a fresh aggregate with the default company
// profile and empty registries.
func NewAggregate() *Aggregate {
	return &Aggregate{
		Company:         DefaultCompany(),
		Customers:       make(map[string]Customer),
		Invoices:        make(map[string]Invoice),
		LastInvoiceNums: make(map[string]int),
	}
}

// Clone deep-copies the aggregate. Record operations mutate a clone
// and commit it only after a successful flush.
func (a *Aggregate) Clone() *Aggregate {
	out := &Aggregate{
		Company:         a.Company,
		Customers:       make(map[string]Customer, len(a.Customers)),
		Invoices:        make(map[string]Invoice, len(a.Invoices)),
		LastInvoiceNums: make(map[string]int, len(a.LastInvoiceNums)),
	}
	for name, c := range a.Customers {
		out.Customers[name] = c
	}
	for num, inv := range a.Invoices {
		out.Invoices[num] = inv.Clone()
	}
	for code, n := range a.LastInvoiceNums {
		out.LastInvoiceNums[code] = n
	}
	return out
}

// CustomerByCode looks a customer up by its invoice-number code.
func (a *Aggregate) CustomerByCode(code string) (Customer, bool) {
	for _, c := range a.Customers {
		if c.Code == code {
			return c, true
		}
	}
	return Customer{}, false
}
