package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/repositories"
	tsclient "github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements spot search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements SpotSearchRepository
var _ repositories.SpotSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a spot document
func (a *TypesenseAdapter) Index(ctx context.Context, spot *entities.Spot) error {
	tags := spot.Tags
	if tags == nil {
		tags = []string{}
	}

	document := map[string]interface{}{
		"id":               spot.ID,
		"title":            spot.Title,
		"category":         spot.Category,
		"overview":         spot.Overview,
		"addr1":            spot.Address,
		"tags":             tags,
		"popularity_count": spot.PopularityCount,
		"is_active":        spot.IsActive,
		"created_at":       spot.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.SpotsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index spot: %w", err)
	}

	return nil
}

// Delete removes a spot from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.SpotsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete spot from index: %w", err)
	}
	return nil
}

// Search searches spots across title, overview, category and address
func (a *TypesenseAdapter) Search(ctx context.Context, keywords []string) ([]*entities.Spot, error) {
	q := strings.TrimSpace(strings.Join(keywords, " "))
	if q == "" {
		q = "*"
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(q),
		QueryBy:  pointer.String("title,overview,category,addr1,tags"),
		FilterBy: pointer.String("is_active:=true"),
		SortBy:   pointer.String("_text_match:desc,popularity_count:desc"),
		PerPage:  pointer.Int(100),
	}

	result, err := a.client.Client().Collection(tsclient.SpotsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search spots: %w", err)
	}

	spots := []*entities.Spot{}
	if result.Hits == nil {
		return spots, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		// Typesense returns map[string]interface{}, so cast field by field
		spot := &entities.Spot{}
		if val, ok := doc["id"].(string); ok {
			spot.ID = val
		}
		if val, ok := doc["title"].(string); ok {
			spot.Title = val
		}
		if val, ok := doc["category"].(string); ok {
			spot.Category = val
		}
		if val, ok := doc["overview"].(string); ok {
			spot.Overview = val
		}
		if val, ok := doc["addr1"].(string); ok {
			spot.Address = val
		}
		if val, ok := doc["tags"].([]interface{}); ok {
			for _, tag := range val {
				if s, ok := tag.(string); ok {
					spot.Tags = append(spot.Tags, s)
				}
			}
		}
		if val, ok := doc["popularity_count"].(float64); ok {
			spot.PopularityCount = int(val)
		}
		if val, ok := doc["is_active"].(bool); ok {
			spot.IsActive = val
		}
		if val, ok := doc["created_at"].(float64); ok {
			spot.CreatedAt = time.Unix(int64(val), 0)
		}

		spots = append(spots, spot)
	}

	return spots, nil
}
