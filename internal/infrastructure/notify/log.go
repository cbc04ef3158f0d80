package notify

import (
	"context"

	domuser "github.com/Zhima-Mochi/order-processor/internal/domain/user"
	"github.com/Zhima-Mochi/order-processor/internal/observability"
	"github.com/Zhima-Mochi/order-processor/internal/observability/logctx"
)

// Log writes notifications to the structured log instead of delivering them.
type Log struct {
	log observability.Logger
}

func NewLog(logger observability.Logger) *Log {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Log{log: logger.With(observability.F("component", "notifier"))}
}

func (l *Log) Notify(ctx context.Context, n domuser.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logctx.FromOr(ctx, l.log).Info("user_notified",
		observability.F("user_id", n.UserID),
		observability.F("message", n.Message),
		observability.F("sent_at", n.SentAt),
	)
	return nil
}
