package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/providers"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/repositories"
)

// CachedSpotAdapter wraps SpotRepository with caching
type CachedSpotAdapter struct {
	adapter repositories.SpotRepository
	cache   providers.CacheProvider
}

// NewCachedSpotAdapter creates a new cached spot adapter
func NewCachedSpotAdapter(adapter repositories.SpotRepository, cache providers.CacheProvider) repositories.SpotRepository {
	return &CachedSpotAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds). The catalog changes only on import, so lists
// can live longer than search results.
const (
	spotByIDTTL    = 300
	spotsListTTL   = 180
	spotsSearchTTL = 120
)

func spotCacheKey(id string) string {
	return fmt.Sprintf("spot:%s", id)
}

func spotsCategoryCacheKey(category string) string {
	return fmt.Sprintf("spots:category:%s", category)
}

const spotsListCacheKey = "spots:list:all"

// GetByID retrieves a spot by ID with caching
func (a *CachedSpotAdapter) GetByID(ctx context.Context, id string) (*entities.Spot, error) {
	cacheKey := spotCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var spot entities.Spot
		if err := json.Unmarshal(cached, &spot); err == nil {
			return &spot, nil
		}
		log.Printf("Failed to unmarshal cached spot %s: %v", id, err)
	}

	spot, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(spot); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, spotByIDTTL); err != nil {
				log.Printf("Failed to cache spot %s: %v", id, err)
			}
		}
	}()

	return spot, nil
}

// GetByIDs retrieves multiple spots by IDs, filling per-id cache entries
// for the ones fetched from the database
func (a *CachedSpotAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Spot, error) {
	if len(ids) == 0 {
		return []*entities.Spot{}, nil
	}

	cachedByID := make(map[string]*entities.Spot, len(ids))
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if cached, err := a.cache.Get(ctx, spotCacheKey(id)); err == nil {
			var spot entities.Spot
			if err := json.Unmarshal(cached, &spot); err == nil {
				cachedByID[id] = &spot
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := a.adapter.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, spot := range fetched {
			cachedByID[spot.ID] = spot
		}

		go func(spots []*entities.Spot) {
			bgCtx := context.Background()
			for _, spot := range spots {
				if data, err := json.Marshal(spot); err == nil {
					if err := a.cache.Set(bgCtx, spotCacheKey(spot.ID), data, spotByIDTTL); err != nil {
						log.Printf("Failed to cache spot %s: %v", spot.ID, err)
					}
				}
			}
		}(fetched)
	}

	// Preserve the requested order, skipping unknown ids
	spots := make([]*entities.Spot, 0, len(ids))
	for _, id := range ids {
		if spot, ok := cachedByID[id]; ok {
			spots = append(spots, spot)
		}
	}

	return spots, nil
}

// ListAll retrieves all active spots with caching
func (a *CachedSpotAdapter) ListAll(ctx context.Context) ([]*entities.Spot, error) {
	if cached, err := a.cache.Get(ctx, spotsListCacheKey); err == nil {
		var spots []*entities.Spot
		if err := json.Unmarshal(cached, &spots); err == nil {
			return spots, nil
		}
	}

	spots, err := a.adapter.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(spots); err == nil {
			if err := a.cache.Set(bgCtx, spotsListCacheKey, data, spotsListTTL); err != nil {
				log.Printf("Failed to cache spot list: %v", err)
			}
		}
	}()

	return spots, nil
}

// ListByCategory retrieves spots for one category with caching
func (a *CachedSpotAdapter) ListByCategory(ctx context.Context, category string) ([]*entities.Spot, error) {
	cacheKey := spotsCategoryCacheKey(category)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var spots []*entities.Spot
		if err := json.Unmarshal(cached, &spots); err == nil {
			return spots, nil
		}
	}

	spots, err := a.adapter.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(spots); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, spotsListTTL); err != nil {
				log.Printf("Failed to cache category list %s: %v", category, err)
			}
		}
	}()

	return spots, nil
}

// Search delegates to the underlying adapter; keyword combinations are
// too sparse to cache effectively
func (a *CachedSpotAdapter) Search(ctx context.Context, keywords []string) ([]*entities.Spot, error) {
	return a.adapter.Search(ctx, keywords)
}

// Create writes through and invalidates the list caches
func (a *CachedSpotAdapter) Create(ctx context.Context, spot *entities.Spot) error {
	if err := a.adapter.Create(ctx, spot); err != nil {
		return err
	}

	if err := a.cache.Delete(ctx, spotsListCacheKey); err != nil {
		log.Printf("Failed to invalidate spot list cache: %v", err)
	}
	if err := a.cache.Delete(ctx, spotsCategoryCacheKey(spot.Category)); err != nil {
		log.Printf("Failed to invalidate category cache %s: %v", spot.Category, err)
	}

	return nil
}
