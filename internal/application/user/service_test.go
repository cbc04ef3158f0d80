package user

import (
	"context"
	"errors"
	"testing"
	"time"

	domuser "github.com/Zhima-Mochi/order-processor/internal/domain/user"
)

type fakeDirectory struct {
	users map[string]*domuser.User
	err   error
}

func (f *fakeDirectory) Get(_ context.Context, id string) (*domuser.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domuser.ErrNotFound
	}
	return u, nil
}

type fakeNotifier struct {
	sent []domuser.Notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, n domuser.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func TestService_CurrentUser(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{users: map[string]*domuser.User{
		"user-1": {ID: "user-1", Name: "Ada"},
	}}
	svc := NewService(dir, &fakeNotifier{}, nil)

	t.Run("resolves the user on the context", func(t *testing.T) {
		u, err := svc.CurrentUser(domuser.WithID(context.Background(), "user-1"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if u.Name != "Ada" {
			t.Fatalf("expected Ada, got %s", u.Name)
		}
	})

	t.Run("missing id is unauthenticated", func(t *testing.T) {
		_, err := svc.CurrentUser(context.Background())
		if !errors.Is(err, domuser.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.CurrentUser(domuser.WithID(context.Background(), "user-9"))
		if !errors.Is(err, domuser.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("directory failure is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		svc := NewService(&fakeDirectory{err: boom}, nil, nil)
		_, err := svc.CurrentUser(domuser.WithID(context.Background(), "user-1"))
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped boom, got %v", err)
		}
	})
}

func TestService_NotifyUser(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

	t.Run("delivers through the notifier", func(t *testing.T) {
		n := &fakeNotifier{}
		svc := NewService(&fakeDirectory{}, n, nil)
		svc.now = func() time.Time { return now }

		if err := svc.NotifyUser(context.Background(), &domuser.User{ID: "user-1"}, "hello"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(n.sent) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(n.sent))
		}
		got := n.sent[0]
		if got.UserID != "user-1" || got.Message != "hello" || !got.SentAt.Equal(now) {
			t.Fatalf("unexpected notification %+v", got)
		}
	})

	t.Run("notifier failure is returned", func(t *testing.T) {
		boom := errors.New("boom")
		svc := NewService(&fakeDirectory{}, &fakeNotifier{err: boom}, nil)

		err := svc.NotifyUser(context.Background(), &domuser.User{ID: "user-1"}, "hello")
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	})

	t.Run("nil user is rejected", func(t *testing.T) {
		svc := NewService(&fakeDirectory{}, &fakeNotifier{}, nil)
		if err := svc.NotifyUser(context.Background(), nil, "hello"); err == nil {
			t.Fatalf("expected error for nil user")
		}
	})
}
