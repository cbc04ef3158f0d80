package order

import (
	"context"
	"errors"
	"fmt"
)

// Failure categories returned by the processor. Each is combined with the
// collaborator's own error, so errors.Is matches either one.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrValidation      = errors.New("validation failed")
	ErrPayment         = errors.New("payment failed")
	ErrNotification    = errors.New("notification failed")
	ErrUserService     = errors.New("user service failure")
	ErrRepository      = errors.New("order: repository failure")
)

func categorize(category, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", category, err)
}

func newValidation(msg string) error {
	return categorize(ErrValidation, errors.New(msg))
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
