package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/uscheck/uiseong-tourism/backend/internal/application/services"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
)

// RecommendationHandler handles the recommend / finalize / history cycle
type RecommendationHandler struct {
	service *services.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

type recommendRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

type recommendResponse struct {
	Success          bool                  `json:"success"`
	SelectionID      string                `json:"selection_id"`
	SessionID        string                `json:"session_id"`
	Query            string                `json:"query"`
	Intent           *entities.Intent      `json:"analysis"`
	RecommendedSpots []entities.ScoredSpot `json:"recommended_spots"`
	TotalCount       int                   `json:"total_count"`
	Timestamp        time.Time             `json:"timestamp"`
}

// Recommend handles POST /api/recommendations
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Recommend(r.Context(), req.Query, req.SessionID, req.UserID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, recommendResponse{
		Success:          true,
		SelectionID:      result.SelectionID,
		SessionID:        result.SessionID,
		Query:            result.Query,
		Intent:           result.Intent,
		RecommendedSpots: result.RecommendedSpots,
		TotalCount:       result.TotalCount,
		Timestamp:        result.Timestamp,
	})
}

type finalizeRequest struct {
	SelectionID     string   `json:"selection_id"`
	SelectedSpotIDs []string `json:"selected_spot_ids"`
}

type finalizeResponse struct {
	Success           bool             `json:"success"`
	SelectionID       string           `json:"selection_id"`
	SessionID         string           `json:"session_id"`
	SelectedSpots     []*entities.Spot `json:"selected_spots"`
	QRCodeURL         string           `json:"qr_code_url,omitempty"`
	QRAccessURL       string           `json:"qr_access_url,omitempty"`
	TravelDescription string           `json:"travel_description,omitempty"`
	AttachmentError   string           `json:"attachment_error,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Finalize handles POST /api/selections/finalize
func (h *RecommendationHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req finalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Finalize(r.Context(), req.SelectionID, req.SelectedSpotIDs)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, finalizeResponse{
		Success:           true,
		SelectionID:       result.Selection.ID,
		SessionID:         result.Selection.SessionID,
		SelectedSpots:     result.SelectedSpots,
		QRCodeURL:         result.QRCodeURL,
		QRAccessURL:       result.QRAccessURL,
		TravelDescription: result.TravelDescription,
		AttachmentError:   result.AttachmentError,
		CreatedAt:         result.Selection.CreatedAt,
		UpdatedAt:         result.Selection.UpdatedAt,
	})
}

// History handles GET /api/selections
func (h *RecommendationHandler) History(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	selections, err := h.service.History(r.Context(), query.Get("session_id"), query.Get("user_id"), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"selections":  selections,
		"total_count": len(selections),
	})
}
