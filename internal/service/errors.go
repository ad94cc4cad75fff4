package service

import "errors"

// Common service errors
var (
	// ErrInvalidInput is returned when input validation fails; the
	// wrapped detail carries a human-readable reason
	ErrInvalidInput = errors.New("invalid input")

	// ErrCustomerExists is returned when a customer name is already taken
	ErrCustomerExists = errors.New("customer already exists")

	// ErrCustomerNotFound is returned when a customer is not found
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInvoiceNotFound is returned when an invoice is not found
	ErrInvoiceNotFound = errors.New("invoice not found")
)
