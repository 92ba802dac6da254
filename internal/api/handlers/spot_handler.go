package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/uscheck/uiseong-tourism/backend/internal/application/services"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
)

// SpotHandler handles catalog HTTP requests
type SpotHandler struct {
	service *services.SpotService
}

// NewSpotHandler creates a new spot handler
func NewSpotHandler(service *services.SpotService) *SpotHandler {
	return &SpotHandler{service: service}
}

// GetSpot handles GET /api/spots/{id}
func (h *SpotHandler) GetSpot(w http.ResponseWriter, r *http.Request) {
	spotID := r.PathValue("id")
	if spotID == "" {
		respondWithError(w, http.StatusBadRequest, "spot ID is required")
		return
	}

	spot, err := h.service.GetByID(r.Context(), spotID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, spot)
}

// ListSpots handles GET /api/spots
func (h *SpotHandler) ListSpots(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var spots []*entities.Spot
	var err error
	if category != "" {
		spots, err = h.service.ListByCategory(r.Context(), category)
	} else {
		spots, err = h.service.ListAll(r.Context())
	}
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"spots": spots,
		"count": len(spots),
	})
}

// SearchSpots handles GET /api/spots/search
func (h *SpotHandler) SearchSpots(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondWithError(w, http.StatusBadRequest, "q is required")
		return
	}

	spots, err := h.service.Search(r.Context(), strings.Fields(q))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"spots": spots,
		"count": len(spots),
	})
}

// PopularSpots handles GET /api/spots/popular
func (h *SpotHandler) PopularSpots(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}

	spots, err := h.service.Popular(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"spots": spots,
		"count": len(spots),
	})
}

// SpotsWithImages handles GET /api/spots/with-images
func (h *SpotHandler) SpotsWithImages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	spots, err := h.service.WithImages(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"spots": spots,
		"count": len(spots),
	})
}

// SpotStatistics handles GET /api/spots/stats
func (h *SpotHandler) SpotStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
