package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/providers"
	redisclient "github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/redis"
)

// RedisEventBus implements the EventBus interface on Redis Pub/Sub.
// Consumers subscribe out of process with a plain Redis client; this side
// only publishes.
type RedisEventBus struct {
	client *redisclient.Client
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	return &RedisEventBus{client: client}
}

// Publish publishes an event to a channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.SelectionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Printf("Published event to channel %s: %s", channel, event.SelectionID)
	return nil
}

// Close closes the event bus. The publisher holds no subscriptions; the
// underlying Redis client is closed by its owner.
func (b *RedisEventBus) Close() error {
	return nil
}
