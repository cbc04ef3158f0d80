package payment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrDeclined      = errors.New("payment: declined")
	ErrInvalidAmount = errors.New("payment: amount must be greater than zero")
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

type Receipt struct {
	TransactionID string
	Amount        decimal.Decimal
	Status        Status
	ProcessedAt   time.Time
}

// Processor charges a monetary amount.
type Processor interface {
	Process(ctx context.Context, amount decimal.Decimal) (Receipt, error)
}
