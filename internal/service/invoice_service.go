package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/GeoKM/kmatt-invoice/internal/domain"
	"github.com/GeoKM/kmatt-invoice/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// dueDateLayout is the wire format for due dates at the input boundary.
const dueDateLayout = "2006-01-02"

// InvoiceService implements the invoice record operations.
type InvoiceService struct {
	store    *store.Store
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewInvoiceService(st *store.Store, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		store:    st,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Create issues the next invoice number for the customer's code,
// snapshots the customer into the invoice, and persists it. Item
// amounts are recomputed from quantity and rate; any caller-supplied
// amount is ignored.
func (s *InvoiceService) Create(ctx context.Context, params *domain.CreateInvoiceParams) (*domain.Invoice, error) {
	params.CustomerCode = strings.ToUpper(strings.TrimSpace(params.CustomerCode))
	if err := s.validate.Struct(params); err != nil {
		return nil, invalidInput(err)
	}
	dueDate, err := parseDueDate(params.DueDate)
	if err != nil {
		return nil, err
	}

	var created domain.Invoice
	err = s.store.Update(func(agg *domain.Aggregate) error {
		customer, ok := agg.CustomerByCode(params.CustomerCode)
		if !ok {
			return fmt.Errorf("%w: no customer with code %q", ErrCustomerNotFound, params.CustomerCode)
		}

		items, subtotal := buildItems(params.Items)
		number := NextInvoiceNumber(agg, customer.Code)

		created = domain.Invoice{
			Number:   number,
			Date:     s.now(),
			DueDate:  dueDate,
			Customer: customer,
			Items:    items,
			Subtotal: subtotal,
			Total:    subtotal,
			Notes:    params.Notes,
			Paid:     false,
		}
		agg.Invoices[number] = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("number", created.Number),
		zap.String("customer", created.Customer.Name),
		zap.String("total", created.Total.String()))

	out := created.Clone()
	return &out, nil
}

// Edit replaces items, notes, due date and paid flag of an existing
// invoice, recomputing amounts and totals. The invoice number, issue
// date and customer snapshot are immutable.
func (s *InvoiceService) Edit(ctx context.Context, number string, params *domain.EditInvoiceParams) (*domain.Invoice, error) {
	number = strings.TrimSpace(number)
	if err := s.validate.Struct(params); err != nil {
		return nil, invalidInput(err)
	}
	dueDate, err := parseDueDate(params.DueDate)
	if err != nil {
		return nil, err
	}

	var updated domain.Invoice
	err = s.store.Update(func(agg *domain.Aggregate) error {
		inv, ok := agg.Invoices[number]
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvoiceNotFound, number)
		}

		items, subtotal := buildItems(params.Items)
		inv.Items = items
		inv.Subtotal = subtotal
		inv.Total = subtotal
		inv.Notes = params.Notes
		inv.DueDate = dueDate
		inv.Paid = params.Paid

		agg.Invoices[number] = inv
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice updated", zap.String("number", number))

	out := updated.Clone()
	return &out, nil
}

func (s *InvoiceService) Delete(ctx context.Context, number string) error {
	number = strings.TrimSpace(number)
	err := s.store.Update(func(agg *domain.Aggregate) error {
		if _, ok := agg.Invoices[number]; !ok {
			return fmt.Errorf("%w: %q", ErrInvoiceNotFound, number)
		}
		delete(agg.Invoices, number)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("invoice deleted", zap.String("number", number))
	return nil
}

func (s *InvoiceService) MarkPaid(ctx context.Context, number string) error {
	number = strings.TrimSpace(number)
	err := s.store.Update(func(agg *domain.Aggregate) error {
		inv, ok := agg.Invoices[number]
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvoiceNotFound, number)
		}
		inv.Paid = true
		agg.Invoices[number] = inv
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("invoice marked paid", zap.String("number", number))
	return nil
}

// Get fetches a single invoice by number.
func (s *InvoiceService) Get(ctx context.Context, number string) (*domain.Invoice, error) {
	var (
		inv domain.Invoice
		ok  bool
	)
	s.store.View(func(agg *domain.Aggregate) {
		inv, ok = agg.Invoices[strings.TrimSpace(number)]
	})
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvoiceNotFound, number)
	}
	out := inv.Clone()
	return &out, nil
}

// ListForCustomer returns the invoices snapshotted against the given
// customer code, most recent issue date first.
func (s *InvoiceService) ListForCustomer(ctx context.Context, code string) []domain.Invoice {
	code = strings.ToUpper(strings.TrimSpace(code))

	var invoices []domain.Invoice
	s.store.View(func(agg *domain.Aggregate) {
		invoices = lo.FilterMap(lo.Values(agg.Invoices), func(inv domain.Invoice, _ int) (domain.Invoice, bool) {
			if inv.Customer.Code != code {
				return domain.Invoice{}, false
			}
			return inv.Clone(), true
		})
	})
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].Date.After(invoices[j].Date)
	})
	return invoices
}

// List returns every invoice, most recent issue date first.
func (s *InvoiceService) List(ctx context.Context) []domain.Invoice {
	var invoices []domain.Invoice
	s.store.View(func(agg *domain.Aggregate) {
		invoices = lo.Map(lo.Values(agg.Invoices), func(inv domain.Invoice, _ int) domain.Invoice {
			return inv.Clone()
		})
	})
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].Date.After(invoices[j].Date)
	})
	return invoices
}

func buildItems(params []domain.ItemParams) ([]domain.InvoiceItem, decimal.Decimal) {
	items := make([]domain.InvoiceItem, len(params))
	subtotal := decimal.Zero
	for i, p := range params {
		rate := decimal.NewFromFloat(p.Rate)
		amount := rate.Mul(decimal.NewFromInt(int64(p.Quantity)))
		items[i] = domain.InvoiceItem{
			Description: strings.TrimSpace(p.Description),
			Quantity:    p.Quantity,
			Rate:        rate,
			Amount:      amount,
		}
		subtotal = subtotal.Add(amount)
	}
	return items, subtotal
}

func parseDueDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dueDateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due date %q is not a valid %s date", ErrInvalidInput, value, dueDateLayout)
	}
	return t, nil
}
