package memory

import (
	"context"
	"errors"
	"testing"

	domuser "github.com/Zhima-Mochi/order-processor/internal/domain/user"
)

func TestUserDirectory_Get(t *testing.T) {
	ctx := context.Background()
	d := NewUserDirectory()

	if err := d.Put(ctx, &domuser.User{ID: "user-1", Name: "Ada"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	u, err := d.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	u.Name = "changed"

	again, _ := d.Get(ctx, "user-1")
	if again.Name != "Ada" {
		t.Fatalf("expected stored user to be unaffected, got %s", again.Name)
	}

	if _, err := d.Get(ctx, "user-2"); !errors.Is(err, domuser.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := d.Put(ctx, &domuser.User{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}
