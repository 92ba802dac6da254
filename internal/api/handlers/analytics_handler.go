package handlers

import (
	"net/http"
	"strconv"

	"github.com/uscheck/uiseong-tourism/backend/internal/application/services"
)

// AnalyticsHandler exposes the query analytics read side
type AnalyticsHandler struct {
	service *services.QueryAnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *services.QueryAnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// TopQueries handles GET /api/analytics/queries/top
func (h *AnalyticsHandler) TopQueries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	queries, err := h.service.TopQueries(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": queries,
		"count":   len(queries),
	})
}

// RecentQueries handles GET /api/analytics/queries/recent
func (h *AnalyticsHandler) RecentQueries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.service.RecentEvents(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}
