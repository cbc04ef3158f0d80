package notify

import (
	"context"
	"encoding/json"
	"fmt"

	domuser "github.com/Zhima-Mochi/order-processor/internal/domain/user"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notifications:"

// Redis publishes notifications on a per-user pub/sub channel.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Channel returns the pub/sub channel carrying notifications for userID.
func Channel(userID string) string {
	return channelPrefix + userID
}

func (r *Redis) Notify(ctx context.Context, n domuser.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := r.client.Publish(ctx, Channel(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
