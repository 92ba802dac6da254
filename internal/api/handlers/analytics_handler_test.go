package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uscheck/uiseong-tourism/backend/internal/api/handlers"
	"github.com/uscheck/uiseong-tourism/backend/internal/application/services"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
)

type fakeAnalyticsRepo struct {
	counts    []*entities.QueryCount
	events    []*entities.QueryEvent
	err       error
	lastLimit int
}

func (r *fakeAnalyticsRepo) Record(ctx context.Context, event *entities.QueryEvent) error {
	return nil
}

func (r *fakeAnalyticsRepo) TopQueries(ctx context.Context, limit int) ([]*entities.QueryCount, error) {
	r.lastLimit = limit
	return r.counts, r.err
}

func (r *fakeAnalyticsRepo) RecentEvents(ctx context.Context, limit int) ([]*entities.QueryEvent, error) {
	r.lastLimit = limit
	return r.events, r.err
}

func TestTopQueries_ReturnsCounts(t *testing.T) {
	repo := &fakeAnalyticsRepo{counts: []*entities.QueryCount{
		{Query: "계곡", Count: 12},
		{Query: "마늘", Count: 4},
	}}
	handler := handlers.NewAnalyticsHandler(services.NewQueryAnalyticsService(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/queries/top?limit=2", nil)
	rec := httptest.NewRecorder()

	handler.TopQueries(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, repo.lastLimit)

	var resp struct {
		Queries []*entities.QueryCount `json:"queries"`
		Count   int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "계곡", resp.Queries[0].Query)
	assert.Equal(t, 12, resp.Queries[0].Count)
}

func TestTopQueries_DefaultsLimit(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	handler := handlers.NewAnalyticsHandler(services.NewQueryAnalyticsService(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/queries/top", nil)
	rec := httptest.NewRecorder()

	handler.TopQueries(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, repo.lastLimit)
}

func TestRecentQueries_ReturnsNewestFirst(t *testing.T) {
	repo := &fakeAnalyticsRepo{events: []*entities.QueryEvent{
		{ID: "e2", Query: "사과"},
		{ID: "e1", Query: "계곡"},
	}}
	handler := handlers.NewAnalyticsHandler(services.NewQueryAnalyticsService(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/queries/recent?limit=5", nil)
	rec := httptest.NewRecorder()

	handler.RecentQueries(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, repo.lastLimit)

	var resp struct {
		Events []*entities.QueryEvent `json:"events"`
		Count  int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "e2", resp.Events[0].ID)
}

func TestTopQueries_StoreFailureReturns500(t *testing.T) {
	repo := &fakeAnalyticsRepo{err: errors.New("db down")}
	handler := handlers.NewAnalyticsHandler(services.NewQueryAnalyticsService(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/queries/top", nil)
	rec := httptest.NewRecorder()

	handler.TopQueries(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
