package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/Zhima-Mochi/order-processor/internal/domain/order"

	"github.com/shopspring/decimal"
)

func TestOrderRepository_FindByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewOrderRepository()

	o := domain.New("order-1", "user-1", decimal.NewFromInt(10), "USD")
	if err := repo.Save(ctx, o); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.FindByID(ctx, "order-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == o {
		t.Fatalf("expected a copy, got the stored pointer")
	}
	got.Status = domain.Status("completed")

	again, _ := repo.FindByID(ctx, "order-1")
	if again.Status != domain.StatusPending {
		t.Fatalf("expected stored order to be unaffected, got %s", again.Status)
	}

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderRepository_FindAllIsOrdered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewOrderRepository()

	base := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"c", "a", "b"} {
		o := domain.New(id, "user-1", decimal.NewFromInt(1), "USD")
		o.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if id == "b" {
			o.CreatedAt = base
		}
		if err := repo.Save(ctx, o); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var ids []string
	for _, o := range all {
		ids = append(ids, o.ID)
	}
	want := []string{"b", "c", "a"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestOrderRepository_SaveRequiresID(t *testing.T) {
	if err := NewOrderRepository().Save(context.Background(), &domain.Order{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}
