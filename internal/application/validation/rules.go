package validation

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/Zhima-Mochi/order-processor/internal/domain/order"
)

// Rules checks an order before it is charged. Every violated rule is
// reported; the result always matches order.ErrInvalid.
type Rules struct{}

func NewRules() *Rules { return &Rules{} }

func (r *Rules) Validate(ctx context.Context, o *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o == nil {
		return fmt.Errorf("%w: order is required", domain.ErrInvalid)
	}

	var errs []error
	if o.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if o.CustomerID == "" {
		errs = append(errs, errors.New("customer id is required"))
	}
	if !o.Total.IsPositive() {
		errs = append(errs, fmt.Errorf("total must be greater than zero, got %s", o.Total))
	}
	if !validCurrency(o.Currency) {
		errs = append(errs, fmt.Errorf("currency %q is not a 3-letter code", o.Currency))
	}
	if o.Status != domain.StatusPending {
		errs = append(errs, fmt.Errorf("status must be %s, got %s", domain.StatusPending, o.Status))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalid, errors.Join(errs...))
}

func validCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
