package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/providers"
)

const (
	defaultModelTimeout = 5 * time.Second
	intentCacheTTL      = 86400 // 24 hours
	intentCachePrefix   = "query_intent:"
)

// Fallback vocabularies. Each matched term contributes itself as a keyword
// and maps to exactly one category. Korean terms come from the Uiseong
// catalog domain; English equivalents let English queries degrade usefully.
var (
	natureVocabulary = []string{
		"자연", "경관", "산", "계곡", "강", "호수", "나무", "숲", "풍경",
		"nature", "mountain", "valley", "river", "lake", "forest", "scenery",
	}
	culturalVocabulary = []string{
		"문화", "역사", "유적", "박물관", "전통", "고택", "사찰", "절",
		"culture", "history", "heritage", "museum", "temple",
	}
	experienceVocabulary = []string{
		"체험", "활동", "놀이", "축제", "이벤트",
		"experience", "activity", "festival", "event",
	}
)

// QueryAnalysisService turns a raw query into a structured Intent. It uses
// the language model when one is configured and reachable within the
// timeout, and degrades to deterministic vocabulary matching otherwise.
// Analyze never fails: every path yields a valid Intent.
type QueryAnalysisService struct {
	model   providers.LanguageModelProvider
	cache   providers.CacheProvider
	timeout time.Duration
}

// NewQueryAnalysisService creates a new analysis service. model may be nil,
// in which case only the deterministic fallback runs.
func NewQueryAnalysisService(model providers.LanguageModelProvider, timeout time.Duration) *QueryAnalysisService {
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	return &QueryAnalysisService{
		model:   model,
		timeout: timeout,
	}
}

// SetCache sets the cache provider for analysis results.
func (s *QueryAnalysisService) SetCache(cache providers.CacheProvider) {
	s.cache = cache
}

// Analyze processes a raw query through the full analysis pipeline.
func (s *QueryAnalysisService) Analyze(ctx context.Context, query string) *entities.Intent {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return entities.DefaultIntent("")
	}

	cacheKey := intentCachePrefix + strings.ToLower(trimmed)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached entities.Intent
			if json.Unmarshal(data, &cached) == nil {
				return &cached
			}
		}
	}

	intent := s.analyze(ctx, trimmed)

	if s.cache != nil {
		if data, err := json.Marshal(intent); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, intentCacheTTL)
		}
	}

	return intent
}

func (s *QueryAnalysisService) analyze(ctx context.Context, query string) *entities.Intent {
	if s.model == nil {
		return s.fallbackAnalysis(query)
	}

	modelCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.model.Complete(modelCtx, buildAnalysisPrompt(query))
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("language model unavailable, using fallback analysis")
		return s.fallbackAnalysis(query)
	}

	return parseAnalysisResponse(query, response)
}

// fallbackAnalysis is the deterministic keyword-set analysis used when the
// model is unconfigured or errored. Confidence is fixed at 0.7.
func (s *QueryAnalysisService) fallbackAnalysis(query string) *entities.Intent {
	lowered := strings.ToLower(query)

	var keywords []string
	var categories []string

	appendMatches := func(vocabulary []string, category string) {
		for _, term := range vocabulary {
			if strings.Contains(lowered, term) {
				keywords = append(keywords, term)
				if !containsString(categories, category) {
					categories = append(categories, category)
				}
			}
		}
	}

	appendMatches(natureVocabulary, entities.CategoryNature)
	appendMatches(culturalVocabulary, entities.CategoryHeritage)
	appendMatches(experienceVocabulary, entities.CategoryExperience)

	if len(keywords) == 0 {
		keywords = append([]string(nil), entities.DefaultKeywords...)
	}
	if len(categories) == 0 {
		categories = append([]string(nil), entities.DefaultCategories...)
	}

	return &entities.Intent{
		Keywords:       keywords,
		Categories:     categories,
		Label:          "general_search",
		ProcessedQuery: query,
		Confidence:     0.7,
		UsedModel:      false,
	}
}

type analysisPayload struct {
	Keywords       []string `json:"keywords"`
	Categories     []string `json:"categories"`
	Locations      []string `json:"locations"`
	Preferences    []string `json:"preferences"`
	Intent         string   `json:"intent"`
	ProcessedQuery string   `json:"processed_query"`
	Confidence     float64  `json:"confidence"`
}

// parseAnalysisResponse extracts the JSON object between the first '{' and
// the last '}' of the model text. A response without braces becomes a
// minimal intent at confidence 0.5; a response that fails to decode drops
// to 0.3.
func parseAnalysisResponse(query, response string) *entities.Intent {
	text := strings.TrimSpace(response)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return &entities.Intent{
			Keywords:       []string{text},
			Label:          "general_search",
			ProcessedQuery: text,
			Confidence:     0.5,
			UsedModel:      true,
		}
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		log.Warn().Str("response", text).Msg("failed to parse model response as JSON")
		return &entities.Intent{
			Label:          "unknown",
			ProcessedQuery: text,
			Confidence:     0.3,
			UsedModel:      true,
		}
	}

	processed := payload.ProcessedQuery
	if processed == "" {
		processed = query
	}
	label := payload.Intent
	if label == "" {
		label = "general_search"
	}
	confidence := payload.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &entities.Intent{
		Keywords:       payload.Keywords,
		Categories:     payload.Categories,
		Locations:      payload.Locations,
		Preferences:    payload.Preferences,
		Label:          label,
		ProcessedQuery: processed,
		Confidence:     confidence,
		UsedModel:      true,
	}
}

// buildAnalysisPrompt embeds the query and the category taxonomy into the
// analysis prompt sent to the language model.
func buildAnalysisPrompt(query string) string {
	return fmt.Sprintf(`의성군 관광지 추천 시스템입니다. 사용자의 자연어 쿼리를 분석해주세요.

사용자 쿼리: %q

다음 정보를 추출하여 JSON 형태로 반환해주세요:
{
    "keywords": ["추출된 키워드들"],
    "categories": ["관광지 카테고리들"],
    "locations": ["언급된 지명들"],
    "preferences": ["사용자 선호사항들"],
    "intent": "사용자 의도",
    "processed_query": "정제된 검색 쿼리",
    "confidence": 0.0
}

가능한 카테고리:
- %s

의성군의 특색:
- 마늘과 양파의 고장
- 조문국 유적지
- 빙계계곡
- 사촌역 은행나무
- 의성 조문국사적지`,
		query,
		strings.Join(entities.Categories(), "\n- "),
	)
}

func containsString(slice []string, value string) bool {
	for _, s := range slice {
		if s == value {
			return true
		}
	}
	return false
}
