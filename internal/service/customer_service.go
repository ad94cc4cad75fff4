package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GeoKM/kmatt-invoice/internal/domain"
	"github.com/GeoKM/kmatt-invoice/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CustomerService implements the customer record operations. Every
// mutation validates first, then runs inside a store update so the
// registry only changes once the new state is on disk.
type CustomerService struct {
	store    *store.Store
	logger   *zap.Logger
	validate *validator.Validate
}

func NewCustomerService(st *store.Store, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		store:    st,
		logger:   logger,
		validate: validator.New(),
	}
}

func (s *CustomerService) Add(ctx context.Context, params *domain.AddCustomerParams) (*domain.Customer, error) {
	normalizeAddCustomerParams(params)
	if err := s.validate.Struct(params); err != nil {
		return nil, invalidInput(err)
	}

	var created domain.Customer
	err := s.store.Update(func(agg *domain.Aggregate) error {
		if _, ok := agg.Customers[params.Name]; ok {
			return fmt.Errorf("%w: %q", ErrCustomerExists, params.Name)
		}
		if other, ok := agg.CustomerByCode(params.Code); ok {
			return fmt.Errorf("%w: code %q already belongs to %q", ErrInvalidInput, params.Code, other.Name)
		}

		created = domain.Customer{
			Name:          params.Name,
			Address:       params.Address,
			Phone:         params.Phone,
			ContactPerson: params.ContactPerson,
			ContactPhone:  params.ContactPhone,
			Email:         params.Email,
			Code:          params.Code,
		}
		agg.Customers[created.Name] = created

		// Seed the counter only if the code has never issued invoices,
		// so re-adding a deleted customer does not restart numbering.
		if _, ok := agg.LastInvoiceNums[created.Code]; !ok {
			agg.LastInvoiceNums[created.Code] = sequenceSeed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer added",
		zap.String("name", created.Name),
		zap.String("code", created.Code))
	return &created, nil
}

func (s *CustomerService) Edit(ctx context.Context, originalName string, params *domain.EditCustomerParams) (*domain.Customer, error) {
	originalName = strings.TrimSpace(originalName)
	normalizeEditCustomerParams(params)
	if err := s.validate.Struct(params); err != nil {
		return nil, invalidInput(err)
	}

	var updated domain.Customer
	err := s.store.Update(func(agg *domain.Aggregate) error {
		original, ok := agg.Customers[originalName]
		if !ok {
			return fmt.Errorf("%w: %q", ErrCustomerNotFound, originalName)
		}
		if params.Name != originalName {
			if _, taken := agg.Customers[params.Name]; taken {
				return fmt.Errorf("%w: %q", ErrCustomerExists, params.Name)
			}
		}
		if other, ok := agg.CustomerByCode(params.Code); ok && other.Name != originalName {
			return fmt.Errorf("%w: code %q already belongs to %q", ErrInvalidInput, params.Code, other.Name)
		}

		updated = domain.Customer{
			Name:          params.Name,
			Address:       params.Address,
			Phone:         params.Phone,
			ContactPerson: params.ContactPerson,
			ContactPhone:  params.ContactPhone,
			Email:         params.Email,
			Code:          params.Code,
		}
		delete(agg.Customers, originalName)
		agg.Customers[updated.Name] = updated

		if updated.Code != original.Code {
			// Migrate the accumulated count so numbering continues
			// under the new code instead of restarting.
			n, ok := agg.LastInvoiceNums[original.Code]
			if !ok {
				n = sequenceSeed
			}
			delete(agg.LastInvoiceNums, original.Code)
			agg.LastInvoiceNums[updated.Code] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer updated",
		zap.String("original_name", originalName),
		zap.String("name", updated.Name),
		zap.String("code", updated.Code))
	return &updated, nil
}

// Delete removes the customer with the given code, its sequence
// counter, and every invoice snapshotted against that code.
func (s *CustomerService) Delete(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	var removedInvoices int
	err := s.store.Update(func(agg *domain.Aggregate) error {
		customer, ok := agg.CustomerByCode(code)
		if !ok {
			return fmt.Errorf("%w: no customer with code %q", ErrCustomerNotFound, code)
		}

		delete(agg.Customers, customer.Name)
		delete(agg.LastInvoiceNums, code)
		for num, inv := range agg.Invoices {
			if inv.Customer.Code == code {
				delete(agg.Invoices, num)
				removedInvoices++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("customer deleted",
		zap.String("code", code),
		zap.Int("invoices_removed", removedInvoices))
	return nil
}

// List returns all customers sorted by name.
func (s *CustomerService) List(ctx context.Context) []domain.Customer {
	var customers []domain.Customer
	s.store.View(func(agg *domain.Aggregate) {
		customers = lo.Values(agg.Customers)
	})
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].Name < customers[j].Name
	})
	return customers
}

// Get looks a customer up by name.
func (s *CustomerService) Get(ctx context.Context, name string) (*domain.Customer, error) {
	var (
		customer domain.Customer
		ok       bool
	)
	s.store.View(func(agg *domain.Aggregate) {
		customer, ok = agg.Customers[strings.TrimSpace(name)]
	})
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCustomerNotFound, name)
	}
	return &customer, nil
}

func normalizeAddCustomerParams(p *domain.AddCustomerParams) {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	p.Phone = strings.TrimSpace(p.Phone)
	p.ContactPerson = strings.TrimSpace(p.ContactPerson)
	p.ContactPhone = strings.TrimSpace(p.ContactPhone)
	p.Email = strings.TrimSpace(p.Email)
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
}

func normalizeEditCustomerParams(p *domain.EditCustomerParams) {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	p.Phone = strings.TrimSpace(p.Phone)
	p.ContactPerson = strings.TrimSpace(p.ContactPerson)
	p.ContactPhone = strings.TrimSpace(p.ContactPhone)
	p.Email = strings.TrimSpace(p.Email)
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
}
