package entities

import (
	"time"
)

// Selection status values. A selection is created pending when a query is
// processed and completed exactly once when the user finalizes a choice.
const (
	SelectionStatusPending   = "pending"
	SelectionStatusCompleted = "completed"
)

// Selection records one recommend-then-choose interaction cycle.
type Selection struct {
	ID                 string    `json:"selection_id" db:"id"`
	SessionID          string    `json:"session_id" db:"session_id"`
	UserID             string    `json:"user_id,omitempty" db:"user_id"`
	OriginalQuery      string    `json:"original_query" db:"original_query"`
	ProcessedQuery     string    `json:"processed_query" db:"processed_query"`
	Intent             *Intent   `json:"ai_analysis,omitempty" db:"-"`
	RecommendedSpotIDs []string  `json:"recommended_spot_ids" db:"-"`
	SelectedSpotIDs    []string  `json:"selected_spot_ids" db:"-"`
	Status             string    `json:"status" db:"status"`
	QRCodeURL          string    `json:"qr_code_url,omitempty" db:"qr_code_url"`
	QRAccessURL        string    `json:"qr_access_url,omitempty" db:"qr_access_url"`
	TravelDescription  string    `json:"travel_description,omitempty" db:"travel_description"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// SelectionEvent is published on the event bus when a selection changes
// state.
type SelectionEvent struct {
	Type        string    `json:"type"`
	SelectionID string    `json:"selection_id"`
	SessionID   string    `json:"session_id"`
	SpotIDs     []string  `json:"spot_ids,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Selection event types.
const (
	SelectionEventCreated   = "selection.created"
	SelectionEventFinalized = "selection.finalized"
)
