package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cimillas/user-balance/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher appends events to Redis Streams, one stream per event
// family, as a JSON envelope under the "event" field.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamFor(event.Type),
		Values: map[string]any{
			"event": payload,
		},
	}
	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("xadd %s: %w", args.Stream, err)
	}
	return nil
}

func streamFor(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "balance."):
		return domain.BalanceEventsStream
	case strings.HasPrefix(eventType, "transfer."):
		return domain.TransferEventsStream
	case strings.HasPrefix(eventType, "order."):
		return domain.OrderEventsStream
	default:
		return domain.ReportEventsStream
	}
}
