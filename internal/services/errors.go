package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/diewo77/commcentre/validation"
)

var (
	// ErrEmptyCart is returned by Checkout when there is nothing to sell.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrLineIndex is returned for a cart position outside the current lines.
	ErrLineIndex = errors.New("cart line index out of range")
	// ErrCheckoutFailed wraps store failures during checkout.
	ErrCheckoutFailed = errors.New("checkout failed")
	ErrProductNotFound = errors.New("product not found")
	ErrJobNotFound     = errors.New("job not found")
)

// ValidationError reports rejected input fields. Nothing is written when it is returned.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// AsValidation returns the violations carried by err, if any.
func AsValidation(err error) (validation.Violations, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Violations, true
	}
	return nil, false
}
