package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("user: not found")
	ErrUnauthenticated = errors.New("user: unauthenticated")
)

type User struct {
	ID    string
	Name  string
	Email string
}

// Notification is a message addressed to a single user.
type Notification struct {
	UserID  string    `json:"user_id"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

type idKey struct{}

// WithID stores the id of the calling user on the context.
func WithID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, idKey{}, id)
}

// IDFrom returns the calling user's id, if any.
func IDFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(idKey{}).(string)
	return id, ok && id != ""
}
