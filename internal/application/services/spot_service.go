package services

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/repositories"
)

// SpotService handles catalog operations for tourism spots. The core never
// mutates spot records; writes happen only through the import path.
type SpotService struct {
	repo       repositories.SpotRepository
	searchRepo repositories.SpotSearchRepository
}

// NewSpotService creates a new spot service. searchRepo may be nil.
func NewSpotService(repo repositories.SpotRepository, searchRepo repositories.SpotSearchRepository) *SpotService {
	return &SpotService{
		repo:       repo,
		searchRepo: searchRepo,
	}
}

// Create inserts a spot and indexes it. Index failures are logged, not
// fatal (the index catches up on the next import).
func (s *SpotService) Create(ctx context.Context, spot *entities.Spot) error {
	if err := s.repo.Create(ctx, spot); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, spot); err != nil {
			log.Warn().Err(err).Str("spot_id", spot.ID).Msg("failed to index spot")
		}
	}

	return nil
}

// GetByID retrieves a spot by ID
func (s *SpotService) GetByID(ctx context.Context, id string) (*entities.Spot, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAll retrieves all active spots
func (s *SpotService) ListAll(ctx context.Context) ([]*entities.Spot, error) {
	return s.repo.ListAll(ctx)
}

// ListByCategory retrieves spots for one category
func (s *SpotService) ListByCategory(ctx context.Context, category string) ([]*entities.Spot, error) {
	return s.repo.ListByCategory(ctx, category)
}

// Search searches spots using the search index if available, falling back
// to the database.
func (s *SpotService) Search(ctx context.Context, keywords []string) ([]*entities.Spot, error) {
	if s.searchRepo != nil {
		spots, err := s.searchRepo.Search(ctx, keywords)
		if err == nil {
			return spots, nil
		}
		log.Warn().Err(err).Msg("search index unavailable, falling back to database")
	}
	return s.repo.Search(ctx, keywords)
}

// Popular returns spots ordered by popularity count, highest first.
func (s *SpotService) Popular(ctx context.Context, limit int) ([]*entities.Spot, error) {
	spots, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(spots, func(i, j int) bool {
		return spots[i].PopularityCount > spots[j].PopularityCount
	})

	if limit > 0 && limit < len(spots) {
		spots = spots[:limit]
	}
	return spots, nil
}

// WithImages returns spots that have a primary image.
func (s *SpotService) WithImages(ctx context.Context, limit int) ([]*entities.Spot, error) {
	spots, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	withImages := make([]*entities.Spot, 0, len(spots))
	for _, spot := range spots {
		if strings.TrimSpace(spot.ImageURL) != "" {
			withImages = append(withImages, spot)
		}
	}

	if limit > 0 && limit < len(withImages) {
		withImages = withImages[:limit]
	}
	return withImages, nil
}

// Statistics summarizes the catalog: total count, per-category counts and
// image coverage.
func (s *SpotService) Statistics(ctx context.Context) (*entities.SpotStatistics, error) {
	spots, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &entities.SpotStatistics{
		TotalSpots:           len(spots),
		CategoryDistribution: make(map[string]int),
	}
	for _, spot := range spots {
		category := spot.Category
		if category == "" {
			category = entities.CategoryGeneral
		}
		stats.CategoryDistribution[category]++
		if strings.TrimSpace(spot.ImageURL) != "" {
			stats.WithImages++
		}
	}
	stats.WithoutImages = stats.TotalSpots - stats.WithImages

	return stats, nil
}
