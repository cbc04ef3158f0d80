package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessedEvent is emitted once an order has been charged and its owner notified.
type ProcessedEvent struct {
	OrderID       string
	UserID        string
	Amount        decimal.Decimal
	TransactionID string
	OccurredAt    time.Time
}

func (ProcessedEvent) EventName() string { return "order.processed" }

func NewProcessedEvent(o *Order, userID, transactionID string) ProcessedEvent {
	return ProcessedEvent{
		OrderID:       o.ID,
		UserID:        userID,
		Amount:        o.Total,
		TransactionID: transactionID,
		OccurredAt:    time.Now().UTC(),
	}
}
