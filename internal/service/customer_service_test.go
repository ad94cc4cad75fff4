package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/GeoKM/kmatt-invoice/internal/config"
	"github.com/GeoKM/kmatt-invoice/internal/domain"
	"github.com/GeoKM/kmatt-invoice/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := &config.StoreConfig{
		Path:            filepath.Join(t.TempDir(), "database.json"),
		BackupRetention: 5,
	}
	st, err := store.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	return st
}

func acmeParams() *domain.AddCustomerParams {
	return &domain.AddCustomerParams{
		Name:          "Acme",
		Address:       "1 Example St",
		Phone:         "0400-000000",
		ContactPerson: "Jane Roe",
		ContactPhone:  "0400-111111",
		Email:         "jane@acme.example",
		Code:          "AC",
	}
}

func TestCustomerService_Add(t *testing.T) {
	st := newTestStore(t)
	svc := NewCustomerService(st, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Add(ctx, acmeParams())
	require.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)
	assert.Equal(t, "AC", created.Code)

	st.View(func(agg *domain.Aggregate) {
		assert.Equal(t, 75, agg.LastInvoiceNums["AC"], "counter seeded at 75")
	})
}

func TestCustomerService_Add_NormalizesCode(t *testing.T) {
	st := newTestStore(t)
	svc := NewCustomerService(st, zap.NewNop())

	params := acmeParams()
	params.Code = "  ac "
	created, err := svc.Add(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "AC", created.Code)
}

func TestCustomerService_Add_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.AddCustomerParams)
	}{
		{"empty name", func(p *domain.AddCustomerParams) { p.Name = "   " }},
		{"code too short", func(p *domain.AddCustomerParams) { p.Code = "A" }},
		{"code too long", func(p *domain.AddCustomerParams) { p.Code = "ABCD" }},
		{"code not alphabetic", func(p *domain.AddCustomerParams) { p.Code = "A1" }},
		{"bad email", func(p *domain.AddCustomerParams) { p.Email = "not-an-email" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := newTestStore(t)
			svc := NewCustomerService(st, zap.NewNop())

			params := acmeParams()
			tc.mutate(params)
			_, err := svc.Add(context.Background(), params)
			assert.ErrorIs(t, err, ErrInvalidInput)

			st.View(func(agg *domain.Aggregate) {
				assert.Empty(t, agg.Customers, "failed add must leave the registry unchanged")
			})
		})
	}
}

func TestCustomerService_Add_DuplicateName(t *testing.T) {
	st := newTestStore(t)
	svc := NewCustomerService(st, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Add(ctx, acmeParams())
	require.NoError(t, err)

	dup := acmeParams()
	dup.Code = "ZZ"
	dup.Phone = "0400-999999"
	_, err = svc.Add(ctx, dup)
	assert.ErrorIs(t, err, ErrCustomerExists)

	// The first customer's data is untouched.
	st.View(func(agg *domain.Aggregate) {
		require.Len(t, agg.Customers, 1)
		assert.Equal(t, "0400-000000", agg.Customers["Acme"].Phone)
		assert.Equal(t, "AC", agg.Customers["Acme"].Code)
	})
}

func TestCustomerService_Add_DuplicateCode(t *testing.T) {
	st := newTestStore(t)
	svc := NewCustomerService(st, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Add(ctx, acmeParams())
	require.NoError(t, err)

	other := acmeParams()
	other.Name = "Other Pty Ltd"
	_, err = svc.Add(ctx, other)
	assert.ErrorIs(t, err, ErrInvalidInput)

	st.View(func(agg *domain.Aggregate) {
		assert.Len(t, agg.Customers, 1)
	})
}

func TestCustomerService_Add_ReusedCodeKeepsCounter(t *testing.T) {
	st := newTestStore(t)
	customers := NewCustomerService(st, zap.NewNop())
	invoices := NewInvoiceService(st, zap.NewNop())
	ctx := context.Background()

	_, err := customers.Add(ctx, acmeParams())
	require.NoError(t, err)
	inv, err := invoices.Create(ctx, &domain.CreateInvoiceParams{
		CustomerCode: "AC",
		Items:        []domain.ItemParams{{Description: "clean", Quantity: 1, Rate: 10}},
		DueDate:      "2025-12-01",
	})
	require.NoError(t, err)
	require.Equal(t, "AC76", inv.Number)

	// Deleting the customer removes the counter; re-adding the code
	// seeds it again because the code has genuinely left use.
	require.NoError(t, customers.Delete(ctx, "AC"))
	_, err = customers.Add(ctx, acmeParams())
	require.NoError(t, err)

	st.View(func(agg *domain.Aggregate) {
		assert.Equal(t, 75, agg.LastInvoiceNums["AC"])
	})
}

func TestCustomerService_Edit(t *testing.T) {
	st := newTestStore(t)
	svc := NewCustomerService(st, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Add(ctx, acmeParams())
	require.NoError(t, err)

	updated, err := svc.Edit(ctx, "Acme", &domain.EditCustomerParams{
		Name:          "Acme Holdings",
		Address:       "2 Example St",
		Phone:         "0400-222222",
		ContactPerson: "Jane Roe",
		ContactPhone:  "0400-111111",
		Email:         "jane@acme.example",
		Code:          "AC",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", updated.Name)

	st.View(func(agg *domain.Aggregate) {
		_, oldKey := agg.Customers["Acme"]
		assert.False(t, oldKey, "old registry key removed")
		assert.Equal(t, "2 Example St", agg.Customers["Acme Holdings"].Address)
	})
}

func TestCustomerService_Edit_NotFound(t *testing.T) {
	st := newTestStore(t)
	svc := NewCustomerService(st, zap.NewNop())

	_, err := svc.Edit(context.Background(), "Nobody", &domain.EditCustomerParams{Name: "Nobody", Code: "NB"})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_Edit_NameCollision(t *testing.T) {
	st := newTestStore(t)
	svc := NewCustomerService(st, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Add(ctx, acmeParams())
	require.NoError(t, err)
	other := acmeParams()
	other.Name = "Other"
	other.Code = "OT"
	_, err = svc.Add(ctx, other)
	require.NoError(t, err)

	_, err = svc.Edit(ctx, "Other", &domain.EditCustomerParams{Name: "Acme", Code: "OT"})
	assert.ErrorIs(t, err, ErrCustomerExists)
}

func TestCustomerService_Edit_CodeCollision(t *testing.T) {
	st := newTestStore(t)
	svc := NewCustomerService(st, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Add(ctx, acmeParams())
	require.NoError(t, err)
	other := acmeParams()
	other.Name = "Other"
	other.Code = "OT"
	_, err = svc.Add(ctx, other)
	require.NoError(t, err)

	_, err = svc.Edit(ctx, "Other", &domain.EditCustomerParams{Name: "Other", Code: "AC"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCustomerService_Edit_MigratesSequenceCounter(t *testing.T) {
	st := newTestStore(t)
	customers := NewCustomerService(st, zap.NewNop())
	invoices := NewInvoiceService(st, zap.NewNop())
	ctx := context.Background()

	_, err := customers.Add(ctx, acmeParams())
	require.NoError(t, err)

	inv, err := invoices.Create(ctx, &domain.CreateInvoiceParams{
		CustomerCode: "AC",
		Items:        []domain.ItemParams{{Description: "clean", Quantity: 1, Rate: 10}},
		DueDate:      "2025-12-01",
	})
	require.NoError(t, err)
	require.Equal(t, "AC76", inv.Number)

	params := acmeParams()
	edit := &domain.EditCustomerParams{
		Name:          params.Name,
		Address:       params.Address,
		Phone:         params.Phone,
		ContactPerson: params.ContactPerson,
		ContactPhone:  params.ContactPhone,
		Email:         params.Email,
		Code:          "NEW",
	}
	_, err = customers.Edit(ctx, "Acme", edit)
	require.NoError(t, err)

	st.View(func(agg *domain.Aggregate) {
		_, old := agg.LastInvoiceNums["AC"]
		assert.False(t, old, "old code's counter removed")
		assert.Equal(t, 76, agg.LastInvoiceNums["NEW"], "count preserved, not reset")
	})

	// Numbering continues under the new code without colliding with
	// invoices issued under the old one.
	next, err := invoices.Create(ctx, &domain.CreateInvoiceParams{
		CustomerCode: "NEW",
		Items:        []domain.ItemParams{{Description: "clean", Quantity: 1, Rate: 10}},
		DueDate:      "2025-12-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "NEW77", next.Number)
}

func TestCustomerService_Delete_CascadesInvoices(t *testing.T) {
	st := newTestStore(t)
	customers := NewCustomerService(st, zap.NewNop())
	invoices := NewInvoiceService(st, zap.NewNop())
	ctx := context.Background()

	_, err := customers.Add(ctx, acmeParams())
	require.NoError(t, err)
	other := acmeParams()
	other.Name = "Other"
	other.Code = "OT"
	_, err = customers.Add(ctx, other)
	require.NoError(t, err)

	for _, code := range []string{"AC", "AC", "OT"} {
		_, err := invoices.Create(ctx, &domain.CreateInvoiceParams{
			CustomerCode: code,
			Items:        []domain.ItemParams{{Description: "clean", Quantity: 1, Rate: 10}},
			DueDate:      "2025-12-01",
		})
		require.NoError(t, err)
	}

	require.NoError(t, customers.Delete(ctx, "AC"))

	st.View(func(agg *domain.Aggregate) {
		assert.Len(t, agg.Customers, 1)
		_, hasCounter := agg.LastInvoiceNums["AC"]
		assert.False(t, hasCounter, "sequence counter removed with the customer")

		// Only the other customer's invoice survives.
		require.Len(t, agg.Invoices, 1)
		for _, inv := range agg.Invoices {
			assert.Equal(t, "OT", inv.Customer.Code)
		}
	})
}

func TestCustomerService_Delete_NotFound(t *testing.T) {
	st := newTestStore(t)
	svc := NewCustomerService(st, zap.NewNop())

	err := svc.Delete(context.Background(), "ZZ")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_List_SortedByName(t *testing.T) {
	st := newTestStore(t)
	svc := NewCustomerService(st, zap.NewNop())
	ctx := context.Background()

	for _, c := range []struct{ name, code string }{
		{"Zenith", "ZE"},
		{"Acme", "AC"},
		{"Mid Co", "MC"},
	} {
		params := acmeParams()
		params.Name = c.name
		params.Code = c.code
		_, err := svc.Add(ctx, params)
		require.NoError(t, err)
	}

	names := make([]string, 0, 3)
	for _, c := range svc.List(ctx) {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Acme", "Mid Co", "Zenith"}, names)
}
