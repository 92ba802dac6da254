package entities

import (
	"time"
)

// QueryEvent is an analytics record of one processed query. Recording is
// fire-and-forget; losing an event never affects the request.
type QueryEvent struct {
	ID          string    `json:"id" db:"id"`
	Query       string    `json:"query" db:"query"`
	IntentLabel string    `json:"intent_label" db:"intent_label"`
	Categories  []string  `json:"categories,omitempty" db:"-"`
	UsedModel   bool      `json:"used_model" db:"used_model"`
	Confidence  float64   `json:"confidence" db:"confidence"`
	ResultCount int       `json:"result_count" db:"result_count"`
	SessionID   string    `json:"session_id,omitempty" db:"session_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// QueryCount aggregates how often a query was seen.
type QueryCount struct {
	Query string `json:"query" db:"query"`
	Count int    `json:"count" db:"count"`
}
