package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	domain "github.com/Zhima-Mochi/order-processor/internal/domain/order"

	"github.com/shopspring/decimal"
)

func TestRules_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *domain.Order {
		return domain.New("order-1", "user-1", decimal.RequireFromString("10.00"), "EUR")
	}

	tests := []struct {
		name    string
		mutate  func(o *domain.Order)
		wantErr string
	}{
		{name: "valid order", mutate: func(*domain.Order) {}},
		{name: "missing id", mutate: func(o *domain.Order) { o.ID = "" }, wantErr: "id is required"},
		{name: "missing customer", mutate: func(o *domain.Order) { o.CustomerID = "" }, wantErr: "customer id is required"},
		{name: "zero total", mutate: func(o *domain.Order) { o.Total = decimal.Zero }, wantErr: "total must be greater than zero"},
		{name: "negative total", mutate: func(o *domain.Order) { o.Total = decimal.NewFromInt(-5) }, wantErr: "total must be greater than zero"},
		{name: "lowercase currency", mutate: func(o *domain.Order) { o.Currency = "eur" }, wantErr: "not a 3-letter code"},
		{name: "already completed", mutate: func(o *domain.Order) { o.Status = domain.Status("completed") }, wantErr: "status must be pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.mutate(o)

			err := NewRules().Validate(context.Background(), o)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q in %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestRules_ReportsEveryViolation(t *testing.T) {
	o := &domain.Order{Total: decimal.Zero}

	err := NewRules().Validate(context.Background(), o)
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"id is required", "customer id is required", "total", "currency", "status"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestRules_NilOrder(t *testing.T) {
	if err := NewRules().Validate(context.Background(), nil); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
