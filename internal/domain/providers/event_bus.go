package providers

import (
	"context"

	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
)

// EventBus publishes selection lifecycle events for external consumers.
type EventBus interface {
	// Publish publishes an event to a channel
	Publish(ctx context.Context, channel string, event *entities.SelectionEvent) error

	// Close releases the bus
	Close() error
}

// EventChannelSelections is the channel for all selection updates
const EventChannelSelections = "selection:updates"
