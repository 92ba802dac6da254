package entities

import (
	"time"
)

// Category taxonomy for tourism spots. Values are the canonical Korean
// labels used by the Uiseong-gun catalog data.
const (
	CategoryHeritage   = "문화재/유적지"
	CategoryNature     = "자연관광지"
	CategoryExperience = "체험관광지"
	CategoryFestival   = "축제/이벤트"
	CategoryFood       = "음식/맛집"
	CategoryLodging    = "숙박시설"
	CategoryLeisure    = "레저/스포츠"
	CategoryGeneral    = "일반"
)

// Categories lists the full taxonomy, general sentinel last.
func Categories() []string {
	return []string{
		CategoryHeritage,
		CategoryNature,
		CategoryExperience,
		CategoryFestival,
		CategoryFood,
		CategoryLodging,
		CategoryLeisure,
		CategoryGeneral,
	}
}

// Spot represents a tourism catalog entry
type Spot struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Category        string    `json:"category" db:"category"`
	Address         string    `json:"addr1" db:"addr1"`
	Address2        string    `json:"addr2,omitempty" db:"addr2"`
	Overview        string    `json:"overview" db:"overview"`
	Tags            []string  `json:"tags,omitempty" db:"-"`
	Tel             string    `json:"tel,omitempty" db:"tel"`
	Homepage        string    `json:"homepage,omitempty" db:"homepage"`
	ImageURL        string    `json:"firstimage,omitempty" db:"firstimage"`
	ImageURL2       string    `json:"firstimage2,omitempty" db:"firstimage2"`
	Location        *Location `json:"location,omitempty" db:"-"`
	PopularityCount int       `json:"popularity_count" db:"popularity_count"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// ScoredSpot is a spot with its relevance score for one intent.
// Scores are deterministic given (Intent, Spot) and always positive.
type ScoredSpot struct {
	Spot           *Spot   `json:"spot"`
	RelevanceScore float64 `json:"relevance_score"`
}

// SpotStatistics summarizes the catalog for the stats endpoint.
type SpotStatistics struct {
	TotalSpots           int            `json:"total_spots"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	WithImages           int            `json:"with_images"`
	WithoutImages        int            `json:"without_images"`
}
