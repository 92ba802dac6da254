package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
)

func TestRank_CategoryOutweighsTitleKeyword(t *testing.T) {
	svc := NewRelevanceRankingService()

	intent := &entities.Intent{
		Keywords:   []string{"계곡"},
		Categories: []string{entities.CategoryNature},
	}

	// s1 matches only the category, s2 only the keyword in the title.
	s1 := &entities.Spot{ID: "s1", Title: "조문국 사적지", Category: entities.CategoryNature}
	s2 := &entities.Spot{ID: "s2", Title: "빙계계곡", Category: entities.CategoryHeritage}

	results := svc.Rank(intent, []*entities.Spot{s2, s1}, 10)

	assert.Len(t, results, 2)
	assert.Equal(t, "s1", results[0].Spot.ID)
	assert.Greater(t, results[0].RelevanceScore, results[1].RelevanceScore)
}

func TestRank_LocationOutweighsTitleKeyword(t *testing.T) {
	svc := NewRelevanceRankingService()

	intent := &entities.Intent{
		Keywords:  []string{"은행나무"},
		Locations: []string{"사촌리"},
	}

	s1 := &entities.Spot{ID: "s1", Title: "마을 숲", Address: "경북 의성군 사촌리"}
	s2 := &entities.Spot{ID: "s2", Title: "은행나무 길", Address: "경북 의성군 단촌면"}

	results := svc.Rank(intent, []*entities.Spot{s2, s1}, 10)

	assert.Equal(t, "s1", results[0].Spot.ID)
}

func TestRank_TitleMatchOutweighsOverviewMatch(t *testing.T) {
	svc := NewRelevanceRankingService()

	intent := &entities.Intent{Keywords: []string{"계곡"}}

	s1 := &entities.Spot{ID: "s1", Title: "빙계계곡"}
	s2 := &entities.Spot{ID: "s2", Title: "금성산", Overview: "계곡을 따라 걷는 등산로"}

	results := svc.Rank(intent, []*entities.Spot{s2, s1}, 10)

	assert.Equal(t, "s1", results[0].Spot.ID)
	assert.Greater(t, results[0].RelevanceScore, results[1].RelevanceScore)
}

func TestRank_OneAwardPerKeyword(t *testing.T) {
	svc := NewRelevanceRankingService()

	intent := &entities.Intent{Keywords: []string{"계곡"}}

	// Keyword appears in both title and overview; only the title counts.
	spot := &entities.Spot{ID: "s1", Title: "빙계계곡", Overview: "계곡 물이 차다"}

	results := svc.Rank(intent, []*entities.Spot{spot}, 10)

	assert.InDelta(t, 2.0, results[0].RelevanceScore, 1e-9)
}

func TestRank_FloorScoreKeepsUnmatchedSpots(t *testing.T) {
	svc := NewRelevanceRankingService()

	intent := &entities.Intent{Keywords: []string{"계곡"}}

	matched := &entities.Spot{ID: "s1", Title: "빙계계곡"}
	unmatched := &entities.Spot{ID: "s2", Title: "의성 마늘 테마파크"}

	results := svc.Rank(intent, []*entities.Spot{unmatched, matched}, 10)

	assert.Len(t, results, 2)
	assert.Equal(t, "s2", results[1].Spot.ID)
	assert.InDelta(t, 0.1, results[1].RelevanceScore, 1e-9)
}

func TestRank_TiesPreserveCatalogOrder(t *testing.T) {
	svc := NewRelevanceRankingService()

	intent := &entities.Intent{Keywords: []string{"없는키워드"}}

	spots := []*entities.Spot{
		{ID: "a", Title: "첫번째"},
		{ID: "b", Title: "두번째"},
		{ID: "c", Title: "세번째"},
	}

	results := svc.Rank(intent, spots, 10)

	assert.Equal(t, "a", results[0].Spot.ID)
	assert.Equal(t, "b", results[1].Spot.ID)
	assert.Equal(t, "c", results[2].Spot.ID)
}

func TestRank_TruncatesToLimit(t *testing.T) {
	svc := NewRelevanceRankingService()

	spots := []*entities.Spot{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
	}

	results := svc.Rank(&entities.Intent{}, spots, 2)
	assert.Len(t, results, 2)

	// A limit larger than the catalog returns everything.
	results = svc.Rank(&entities.Intent{}, spots, 100)
	assert.Len(t, results, 4)
}

func TestRank_LimitBelowOneClampedToOne(t *testing.T) {
	svc := NewRelevanceRankingService()

	spots := []*entities.Spot{{ID: "a"}, {ID: "b"}}

	assert.Len(t, svc.Rank(&entities.Intent{}, spots, 0), 1)
	assert.Len(t, svc.Rank(&entities.Intent{}, spots, -5), 1)
}

func TestRank_EmptyCatalog(t *testing.T) {
	svc := NewRelevanceRankingService()
	assert.Empty(t, svc.Rank(&entities.Intent{Keywords: []string{"계곡"}}, nil, 10))
}

func TestRank_Deterministic(t *testing.T) {
	svc := NewRelevanceRankingService()

	intent := &entities.Intent{
		Keywords:   []string{"계곡", "자연"},
		Categories: []string{entities.CategoryNature},
	}
	spots := []*entities.Spot{
		{ID: "a", Title: "빙계계곡", Category: entities.CategoryNature},
		{ID: "b", Title: "고운사", Category: entities.CategoryHeritage, Overview: "자연 속 사찰"},
		{ID: "c", Title: "사촌역 은행나무"},
	}

	first := svc.Rank(intent, spots, 10)
	second := svc.Rank(intent, spots, 10)

	assert.Equal(t, first, second)
}

func TestRank_CaseInsensitiveMatching(t *testing.T) {
	svc := NewRelevanceRankingService()

	intent := &entities.Intent{Keywords: []string{"VALLEY"}}
	spot := &entities.Spot{ID: "s1", Title: "Bingye Valley"}

	results := svc.Rank(intent, []*entities.Spot{spot}, 10)
	assert.InDelta(t, 2.0, results[0].RelevanceScore, 1e-9)
}
