package user

import "context"

// Directory looks users up by id.
type Directory interface {
	Get(ctx context.Context, id string) (*User, error)
}

// Notifier delivers a notification to its user.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
