package service

import (
	"errors"
	"fmt"

	"github.com/GeoKM/kmatt-invoice/internal/domain"
	"github.com/go-playground/validator/v10"
)

// invalidInput translates a validator error into ErrInvalidInput with
// a human-readable reason for the first failing field.
func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s: %s", ErrInvalidInput, fe.Field(), domain.GetValidationMessage(fe.Tag()))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
