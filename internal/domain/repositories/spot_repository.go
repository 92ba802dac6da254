package repositories

import (
	"context"

	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
)

// SpotRepository defines the interface for catalog data operations
type SpotRepository interface {
	// Create inserts a new spot (used by the import process)
	Create(ctx context.Context, spot *entities.Spot) error

	// GetByID retrieves a spot by ID
	GetByID(ctx context.Context, id string) (*entities.Spot, error)

	// GetByIDs retrieves multiple spots by their IDs. Unknown ids are
	// simply absent from the result, not an error.
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Spot, error)

	// ListAll retrieves all active spots in stable insertion order
	ListAll(ctx context.Context) ([]*entities.Spot, error)

	// ListByCategory retrieves active spots whose category contains the
	// given value (case-insensitive)
	ListByCategory(ctx context.Context, category string) ([]*entities.Spot, error)

	// Search retrieves active spots matching any of the keywords across
	// title, overview, category and address
	Search(ctx context.Context, keywords []string) ([]*entities.Spot, error)
}

// SpotSearchRepository defines the interface for the external search index
// (e.g. Typesense)
type SpotSearchRepository interface {
	// Search searches indexed spots
	Search(ctx context.Context, keywords []string) ([]*entities.Spot, error)

	// Index indexes a spot
	Index(ctx context.Context, spot *entities.Spot) error

	// Delete removes a spot from the index
	Delete(ctx context.Context, id string) error
}
