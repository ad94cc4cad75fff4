package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/GeoKM/kmatt-invoice/internal/config"
	"github.com/GeoKM/kmatt-invoice/internal/domain"
	"github.com/GeoKM/kmatt-invoice/internal/logger"
	"github.com/GeoKM/kmatt-invoice/internal/render"
	"github.com/GeoKM/kmatt-invoice/internal/service"
	"github.com/GeoKM/kmatt-invoice/internal/store"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	st, err := store.Open(&cfg.Store, log)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}

	customers := service.NewCustomerService(st, log)
	invoices := service.NewInvoiceService(st, log)

	app := &cli.App{
		Name:  cfg.App.Name,
		Usage: "single-user invoice manager",
		Commands: []*cli.Command{
			customerCommand(customers),
			invoiceCommand(st, invoices),
		},
	}
	return app.Run(args)
}

func customerCommand(customers *service.CustomerService) *cli.Command {
	fieldFlags := []cli.Flag{
		&cli.StringFlag{Name: "name", Required: true},
		&cli.StringFlag{Name: "address"},
		&cli.StringFlag{Name: "phone"},
		&cli.StringFlag{Name: "contact-person"},
		&cli.StringFlag{Name: "contact-phone"},
		&cli.StringFlag{Name: "email"},
		&cli.StringFlag{Name: "code", Required: true, Usage: "2-3 letter invoice prefix"},
	}

	return &cli.Command{
		Name:  "customer",
		Usage: "manage the customer registry",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "add a new customer",
				Flags: fieldFlags,
				Action: func(c *cli.Context) error {
					created, err := customers.Add(c.Context, &domain.AddCustomerParams{
						Name:          c.String("name"),
						Address:       c.String("address"),
						Phone:         c.String("phone"),
						ContactPerson: c.String("contact-person"),
						ContactPhone:  c.String("contact-phone"),
						Email:         c.String("email"),
						Code:          c.String("code"),
					})
					if err != nil {
						return err
					}
					fmt.Printf("Customer %q added (code %s)\n", created.Name, created.Code)
					return nil
				},
			},
			{
				Name:  "edit",
				Usage: "update an existing customer",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "original-name", Required: true},
				}, fieldFlags...),
				Action: func(c *cli.Context) error {
					updated, err := customers.Edit(c.Context, c.String("original-name"), &domain.EditCustomerParams{
						Name:          c.String("name"),
						Address:       c.String("address"),
						Phone:         c.String("phone"),
						ContactPerson: c.String("contact-person"),
						ContactPhone:  c.String("contact-phone"),
						Email:         c.String("email"),
						Code:          c.String("code"),
					})
					if err != nil {
						return err
					}
					fmt.Printf("Customer %q updated (code %s)\n", updated.Name, updated.Code)
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "remove a customer and all of its invoices",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "code", Required: true},
				},
				Action: func(c *cli.Context) error {
					if err := customers.Delete(c.Context, c.String("code")); err != nil {
						return err
					}
					fmt.Println("Customer removed")
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list customers",
				Action: func(c *cli.Context) error {
					all := customers.List(c.Context)
					if len(all) == 0 {
						fmt.Println("No customers found.")
						return nil
					}
					for i, customer := range all {
						fmt.Printf("%d. %s (Code: %s)\n", i+1, customer.Name, customer.Code)
					}
					return nil
				},
			},
		},
	}
}

func invoiceCommand(st *store.Store, invoices *service.InvoiceService) *cli.Command {
	itemFlag := &cli.StringSliceFlag{
		Name:  "item",
		Usage: "line item as 'description|quantity|rate', repeatable",
	}

	return &cli.Command{
		Name:  "invoice",
		Usage: "manage invoices",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create an invoice for a customer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "customer-code", Required: true},
					itemFlag,
					&cli.StringFlag{Name: "notes"},
					&cli.StringFlag{Name: "due-date", Required: true, Usage: "YYYY-MM-DD"},
				},
				Action: func(c *cli.Context) error {
					items, err := parseItemFlags(c.StringSlice("item"))
					if err != nil {
						return err
					}
					inv, err := invoices.Create(c.Context, &domain.CreateInvoiceParams{
						CustomerCode: c.String("customer-code"),
						Items:        items,
						Notes:        c.String("notes"),
						DueDate:      c.String("due-date"),
					})
					if err != nil {
						return err
					}
					fmt.Printf("Invoice %s created!\n", inv.Number)
					return nil
				},
			},
			{
				Name:  "edit",
				Usage: "replace items, notes, due date and paid flag of an invoice",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "number", Required: true},
					itemFlag,
					&cli.StringFlag{Name: "notes"},
					&cli.StringFlag{Name: "due-date", Required: true, Usage: "YYYY-MM-DD"},
					&cli.BoolFlag{Name: "paid"},
				},
				Action: func(c *cli.Context) error {
					items, err := parseItemFlags(c.StringSlice("item"))
					if err != nil {
						return err
					}
					inv, err := invoices.Edit(c.Context, c.String("number"), &domain.EditInvoiceParams{
						Items:   items,
						Notes:   c.String("notes"),
						DueDate: c.String("due-date"),
						Paid:    c.Bool("paid"),
					})
					if err != nil {
						return err
					}
					fmt.Printf("Invoice %s updated\n", inv.Number)
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "delete an invoice",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "number", Required: true},
				},
				Action: func(c *cli.Context) error {
					if err := invoices.Delete(c.Context, c.String("number")); err != nil {
						return err
					}
					fmt.Println("Invoice deleted")
					return nil
				},
			},
			{
				Name:  "mark-paid",
				Usage: "mark an invoice as paid",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "number", Required: true},
				},
				Action: func(c *cli.Context) error {
					if err := invoices.MarkPaid(c.Context, c.String("number")); err != nil {
						return err
					}
					fmt.Println("Invoice marked as paid")
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list invoices, optionally for one customer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "customer-code"},
				},
				Action: func(c *cli.Context) error {
					var all []domain.Invoice
					if code := c.String("customer-code"); code != "" {
						all = invoices.ListForCustomer(c.Context, code)
					} else {
						all = invoices.List(c.Context)
					}
					if len(all) == 0 {
						fmt.Println("No invoices found.")
						return nil
					}
					for _, inv := range all {
						status := "UNPAID"
						if inv.Paid {
							status = "PAID"
						}
						fmt.Printf("%s - %s - $%s - %s\n", inv.Number, inv.Customer.Name, inv.Total.StringFixed(2), status)
					}
					return nil
				},
			},
			{
				Name:  "view",
				Usage: "print the formatted text of an invoice",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "number", Required: true},
				},
				Action: func(c *cli.Context) error {
					inv, err := invoices.Get(c.Context, c.String("number"))
					if err != nil {
						return err
					}
					var out string
					st.View(func(agg *domain.Aggregate) {
						out = render.Text(agg.Company, inv)
					})
					fmt.Print(out)
					return nil
				},
			},
			{
				Name:  "pdf",
				Usage: "write an invoice as a PDF document",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "number", Required: true},
					&cli.StringFlag{Name: "output", Usage: "output path, defaults to invoice_<number>.pdf"},
				},
				Action: func(c *cli.Context) error {
					inv, err := invoices.Get(c.Context, c.String("number"))
					if err != nil {
						return err
					}
					path := c.String("output")
					if path == "" {
						path = fmt.Sprintf("invoice_%s.pdf", inv.Number)
					}
					var renderErr error
					st.View(func(agg *domain.Aggregate) {
						path, renderErr = render.PDF(agg.Company, inv, path)
					})
					if renderErr != nil {
						return renderErr
					}
					fmt.Printf("PDF generated: %s\n", path)
					return nil
				},
			},
		},
	}
}

// parseItemFlags parses repeated --item values in the form
// "description|quantity|rate".
func parseItemFlags(raw []string) ([]domain.ItemParams, error) {
	items := make([]domain.ItemParams, 0, len(raw))
	for _, value := range raw {
		parts := strings.Split(value, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid item %q, expected 'description|quantity|rate'", value)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in item %q: %w", value, err)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rate in item %q: %w", value, err)
		}
		items = append(items, domain.ItemParams{
			Description: strings.TrimSpace(parts[0]),
			Quantity:    qty,
			Rate:        rate,
		})
	}
	return items, nil
}
