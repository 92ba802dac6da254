package entities

// Intent is the structured result of analyzing a free-text query.
// Analysis always produces a valid Intent; failure paths degrade the
// confidence instead of erroring.
type Intent struct {
	Keywords       []string `json:"keywords"`
	Categories     []string `json:"categories"`
	Locations      []string `json:"locations,omitempty"`
	Preferences    []string `json:"preferences,omitempty"`
	Label          string   `json:"intent"`
	ProcessedQuery string   `json:"processed_query"`
	Confidence     float64  `json:"confidence"`
	UsedModel      bool     `json:"used_model"`
}

// Default keywords and category assigned when a query matches none of the
// fallback vocabularies.
var (
	DefaultKeywords   = []string{"관광", "여행"}
	DefaultCategories = []string{CategoryGeneral}
)

// DefaultIntent returns the weakest usable intent for a query.
func DefaultIntent(query string) *Intent {
	return &Intent{
		Keywords:       append([]string(nil), DefaultKeywords...),
		Categories:     append([]string(nil), DefaultCategories...),
		Label:          "general_search",
		ProcessedQuery: query,
		Confidence:     0.7,
	}
}
