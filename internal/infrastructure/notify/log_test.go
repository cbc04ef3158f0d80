package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	domuser "github.com/Zhima-Mochi/order-processor/internal/domain/user"
)

func TestLog_Notify(t *testing.T) {
	n := NewLog(nil)
	msg := domuser.Notification{UserID: "u-1", Message: "hi", SentAt: time.Now()}

	if err := n.Notify(context.Background(), msg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Notify(ctx, msg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
