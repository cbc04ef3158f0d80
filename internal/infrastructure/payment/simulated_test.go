package payment

import (
	"context"
	"errors"
	"testing"

	dompay "github.com/Zhima-Mochi/order-processor/internal/domain/payment"

	"github.com/shopspring/decimal"
)

func TestSimulated_Process(t *testing.T) {
	t.Parallel()

	amount := decimal.RequireFromString("19.99")

	t.Run("always approves at rate 1", func(t *testing.T) {
		s := NewSimulated(1, nil)
		for i := 0; i < 50; i++ {
			r, err := s.Process(context.Background(), amount)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if r.Status != dompay.StatusSuccess {
				t.Fatalf("expected success, got %s", r.Status)
			}
			if r.TransactionID == "" {
				t.Fatalf("expected transaction id")
			}
			if !r.Amount.Equal(amount) {
				t.Fatalf("expected amount %s, got %s", amount, r.Amount)
			}
		}
	})

	t.Run("always declines at rate 0", func(t *testing.T) {
		s := NewSimulated(0, nil)
		for i := 0; i < 50; i++ {
			r, err := s.Process(context.Background(), amount)
			if !errors.Is(err, dompay.ErrDeclined) {
				t.Fatalf("expected ErrDeclined, got %v", err)
			}
			if r.Status != dompay.StatusFailed {
				t.Fatalf("expected failed status, got %s", r.Status)
			}
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		s := NewSimulated(1, nil)
		for _, a := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
			if _, err := s.Process(context.Background(), a); !errors.Is(err, dompay.ErrInvalidAmount) {
				t.Fatalf("expected ErrInvalidAmount for %s, got %v", a, err)
			}
		}
	})

	t.Run("honours cancellation", func(t *testing.T) {
		s := NewSimulated(1, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := s.Process(ctx, amount); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestSimulated_SetSuccessRateClamps(t *testing.T) {
	s := NewSimulated(2, nil)
	if got := s.successRate; got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	s.SetSuccessRate(-3)
	if got := s.successRate; got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
