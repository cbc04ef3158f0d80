package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("order: not found")
	ErrInvalid  = errors.New("order: invalid")
)

type Status string

// StatusPending is the only status an order can be charged in.
const StatusPending Status = "pending"

// Order is a purchasable transaction record identified by ID with a monetary total.
type Order struct {
	ID         string
	CustomerID string
	Total      decimal.Decimal
	Currency   string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New builds a pending order. Rule checks live in the validation package so
// that orders loaded from storage go through the same checks as new ones.
func New(id, customerID string, total decimal.Decimal, currency string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:         id,
		CustomerID: customerID,
		Total:      total,
		Currency:   currency,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}
