package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/repositories"
)

// QueryAnalyticsService records processed queries for offline analysis.
// Recording is best-effort: a lost event never fails the request that
// produced it.
type QueryAnalyticsService struct {
	repo repositories.QueryAnalyticsRepository
}

// NewQueryAnalyticsService creates a new query analytics service.
func NewQueryAnalyticsService(repo repositories.QueryAnalyticsRepository) *QueryAnalyticsService {
	return &QueryAnalyticsService{repo: repo}
}

// Record stores one query event, filling in id and timestamp.
func (s *QueryAnalyticsService) Record(ctx context.Context, event *entities.QueryEvent) {
	if event == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Record(ctx, event); err != nil {
		log.Warn().Err(err).Str("query", event.Query).Msg("failed to record query event")
	}
}

// TopQueries returns the most frequent queries.
func (s *QueryAnalyticsService) TopQueries(ctx context.Context, limit int) ([]*entities.QueryCount, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.TopQueries(ctx, limit)
}

// RecentEvents returns the newest query events first.
func (s *QueryAnalyticsService) RecentEvents(ctx context.Context, limit int) ([]*entities.QueryEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.RecentEvents(ctx, limit)
}
