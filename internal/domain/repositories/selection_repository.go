package repositories

import (
	"context"

	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
)

// SelectionFilter narrows selection history queries. Zero-value filter
// means "all selections".
type SelectionFilter struct {
	SessionID string
	UserID    string
	Status    string
	Limit     int
}

// SelectionRepository defines the interface for selection record
// persistence. The orchestrator is the single writer.
type SelectionRepository interface {
	// Create persists a new selection record
	Create(ctx context.Context, selection *entities.Selection) error

	// GetByID retrieves a selection by ID, nil when not found
	GetByID(ctx context.Context, id string) (*entities.Selection, error)

	// Update overwrites the mutable fields of a selection. Two racing
	// updates resolve last-writer-wins at the row level.
	Update(ctx context.Context, selection *entities.Selection) error

	// List retrieves selections newest-first
	List(ctx context.Context, filter SelectionFilter) ([]*entities.Selection, error)
}
