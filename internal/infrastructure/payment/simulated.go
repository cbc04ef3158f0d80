package payment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	dompay "github.com/Zhima-Mochi/order-processor/internal/domain/payment"
	"github.com/Zhima-Mochi/order-processor/internal/observability"
	"github.com/Zhima-Mochi/order-processor/internal/observability/logctx"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	componentPayment      = "payment_gateway"
	DefaultSuccessRate    = 0.9
	paymentDeclinedReason = "payment_declined"
)

// Simulated is a stand-in payment gateway that approves charges with a
// configurable probability.
type Simulated struct {
	mu          sync.Mutex
	random      *rand.Rand
	successRate float64
	newID       func() string
	now         func() time.Time
	log         observability.Logger
}

func NewSimulated(successRate float64, logger observability.Logger) *Simulated {
	if logger == nil {
		logger = observability.NopLogger()
	}
	s := &Simulated{
		random: rand.New(rand.NewSource(time.Now().UnixNano())),
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
		log:    logger.With(observability.F("component", componentPayment)),
	}
	s.SetSuccessRate(successRate)
	return s
}

// Process charges amount and returns a receipt for approved charges.
func (s *Simulated) Process(ctx context.Context, amount decimal.Decimal) (dompay.Receipt, error) {
	receipt := dompay.Receipt{
		TransactionID: s.newID(),
		Amount:        amount,
		Status:        dompay.StatusFailed,
		ProcessedAt:   s.now(),
	}
	if !amount.IsPositive() {
		return receipt, dompay.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// respect cancellation even though this is mocked
	select {
	case <-ctx.Done():
		return receipt, ctx.Err()
	default:
	}

	logger := logctx.FromOr(ctx, s.log).With(
		observability.F("transaction_id", receipt.TransactionID),
		observability.F("amount", amount.String()),
	)
	if s.random.Float64() >= s.successRate {
		logger.Info("payment_failed", observability.F("reason", paymentDeclinedReason))
		return receipt, dompay.ErrDeclined
	}

	receipt.Status = dompay.StatusSuccess
	logger.Info("payment_success")
	return receipt, nil
}

// SetSuccessRate adjusts the approval probability, clamped to [0, 1].
func (s *Simulated) SetSuccessRate(rate float64) {
	s.mu.Lock()
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	s.successRate = rate
	s.mu.Unlock()
}
