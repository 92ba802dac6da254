package services

import (
	"sort"
	"strings"

	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
)

// RelevanceRankingService scores a catalog against an intent and returns
// the top entries. Scoring is deterministic: no randomness, no state.
type RelevanceRankingService struct {
	wCategory  float64
	wLocation  float64
	wTitle     float64
	wSecondary float64
	floorScore float64
}

// NewRelevanceRankingService creates a ranking service with the default
// weights. The hierarchy category > location > title keyword > secondary
// keyword > floor biases results toward explicit categorical and locational
// intent over incidental text overlap.
func NewRelevanceRankingService() *RelevanceRankingService {
	return &RelevanceRankingService{
		wCategory:  3.0,
		wLocation:  2.5,
		wTitle:     2.0,
		wSecondary: 1.0,
		floorScore: 0.1,
	}
}

// Rank scores every spot against the intent, sorts descending and truncates
// to limit. Ties keep the original catalog order. A limit below 1 is
// clamped to 1.
func (s *RelevanceRankingService) Rank(intent *entities.Intent, spots []*entities.Spot, limit int) []entities.ScoredSpot {
	if len(spots) == 0 {
		return nil
	}
	if limit < 1 {
		limit = 1
	}

	scored := make([]entities.ScoredSpot, len(spots))
	for i, spot := range spots {
		scored[i] = entities.ScoredSpot{
			Spot:           spot,
			RelevanceScore: s.score(intent, spot),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if limit < len(scored) {
		scored = scored[:limit]
	}
	return scored
}

// score accumulates weighted field matches. A spot with no match at all
// gets the floor score so weak intents still order the whole catalog
// instead of silently excluding spots.
func (s *RelevanceRankingService) score(intent *entities.Intent, spot *entities.Spot) float64 {
	score := 0.0

	title := strings.ToLower(spot.Title)
	overview := strings.ToLower(spot.Overview)
	address := strings.ToLower(spot.Address)
	category := strings.ToLower(spot.Category)

	if intent != nil {
		for _, c := range intent.Categories {
			if c == "" {
				continue
			}
			if strings.Contains(category, strings.ToLower(c)) {
				score += s.wCategory
			}
		}

		// One award per keyword: title wins, otherwise overview or address.
		for _, k := range intent.Keywords {
			keyword := strings.ToLower(k)
			if keyword == "" {
				continue
			}
			if strings.Contains(title, keyword) {
				score += s.wTitle
			} else if strings.Contains(overview, keyword) || strings.Contains(address, keyword) {
				score += s.wSecondary
			}
		}

		for _, l := range intent.Locations {
			location := strings.ToLower(l)
			if location == "" {
				continue
			}
			if strings.Contains(address, location) {
				score += s.wLocation
			}
		}
	}

	if score == 0 {
		score = s.floorScore
	}
	return score
}
