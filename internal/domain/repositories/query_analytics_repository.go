package repositories

import (
	"context"

	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
)

// QueryAnalyticsRepository persists query analytics events.
type QueryAnalyticsRepository interface {
	// Record stores one query event
	Record(ctx context.Context, event *entities.QueryEvent) error

	// TopQueries returns the most frequent queries
	TopQueries(ctx context.Context, limit int) ([]*entities.QueryCount, error)

	// RecentEvents returns the newest events first
	RecentEvents(ctx context.Context, limit int) ([]*entities.QueryEvent, error)
}
