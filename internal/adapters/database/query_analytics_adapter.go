package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/repositories"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/uscheck/uiseong-tourism/backend/pkg/errors"
)

type QueryAnalyticsAdapter struct {
	client *postgres.Client
}

func NewQueryAnalyticsAdapter(client *postgres.Client) repositories.QueryAnalyticsRepository {
	return &QueryAnalyticsAdapter{client: client}
}

func (a *QueryAnalyticsAdapter) Record(ctx context.Context, event *entities.QueryEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO query_analytics
		(id, query, intent_label, categories, used_model, confidence, result_count, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := a.client.DB().ExecContext(ctx, query,
		event.ID,
		event.Query,
		event.IntentLabel,
		pq.Array(event.Categories),
		event.UsedModel,
		event.Confidence,
		event.ResultCount,
		event.SessionID,
		event.CreatedAt,
	)

	if err != nil {
		return apperrors.NewInternalError("failed to record query event", err)
	}

	return nil
}

func (a *QueryAnalyticsAdapter) TopQueries(ctx context.Context, limit int) ([]*entities.QueryCount, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT query, COUNT(*) AS count
		FROM query_analytics
		GROUP BY query
		ORDER BY count DESC, query ASC
		LIMIT $1
	`

	rows, err := a.client.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get top queries", err)
	}
	defer rows.Close()

	var counts []*entities.QueryCount
	for rows.Next() {
		c := &entities.QueryCount{}
		if err := rows.Scan(&c.Query, &c.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan query count", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func (a *QueryAnalyticsAdapter) RecentEvents(ctx context.Context, limit int) ([]*entities.QueryEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, query, intent_label, categories, used_model, confidence, result_count, session_id, created_at
		FROM query_analytics
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := a.client.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get recent query events", err)
	}
	defer rows.Close()

	var events []*entities.QueryEvent
	for rows.Next() {
		e := &entities.QueryEvent{}
		err := rows.Scan(
			&e.ID,
			&e.Query,
			&e.IntentLabel,
			pq.Array(&e.Categories),
			&e.UsedModel,
			&e.Confidence,
			&e.ResultCount,
			&e.SessionID,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan query event", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
