package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	domuser "github.com/Zhima-Mochi/order-processor/internal/domain/user"
	"github.com/Zhima-Mochi/order-processor/internal/observability"
	"github.com/Zhima-Mochi/order-processor/internal/observability/logctx"
)

const userService = "user-service"

// Service resolves the calling user from the request context and delivers
// notifications through the configured notifier.
type Service struct {
	directory domuser.Directory
	notifier  domuser.Notifier
	now       func() time.Time
	log       observability.Logger
}

func NewService(directory domuser.Directory, notifier domuser.Notifier, logger observability.Logger) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		directory: directory,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
		log:       logger.With(observability.F("component", userService)),
	}
}

// CurrentUser returns the user whose id is carried by ctx.
func (s *Service) CurrentUser(ctx context.Context) (*domuser.User, error) {
	id, ok := domuser.IDFrom(ctx)
	if !ok {
		return nil, domuser.ErrUnauthenticated
	}
	u, err := s.directory.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domuser.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("user: get %s: %w", id, err)
	}
	return u, nil
}

func (s *Service) NotifyUser(ctx context.Context, u *domuser.User, message string) error {
	if u == nil || u.ID == "" {
		return errors.New("user: notify: user is required")
	}
	if s.notifier == nil {
		return errors.New("user: notify: no notifier configured")
	}

	n := domuser.Notification{
		UserID:  u.ID,
		Message: message,
		SentAt:  s.now(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		logctx.FromOr(ctx, s.log).Warn("user_notify_failed",
			observability.F("user_id", u.ID),
			observability.F("error", err.Error()),
		)
		return fmt.Errorf("user: notify: %w", err)
	}
	return nil
}
