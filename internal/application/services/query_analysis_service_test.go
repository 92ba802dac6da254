package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
)

type stubModel struct {
	response string
	err      error
	calls    int
}

func (m *stubModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, ok := c.items[key]; ok {
		return data, nil
	}
	return nil, errors.New("cache miss")
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok, nil
}

func TestAnalyze_NoModel_FallbackVocabulary(t *testing.T) {
	svc := NewQueryAnalysisService(nil, time.Second)

	intent := svc.Analyze(context.Background(), "조용한 계곡에서 쉬고 싶어요")

	assert.Contains(t, intent.Keywords, "계곡")
	assert.Contains(t, intent.Categories, entities.CategoryNature)
	assert.InDelta(t, 0.7, intent.Confidence, 1e-9)
	assert.False(t, intent.UsedModel)
	assert.Equal(t, "general_search", intent.Label)
}

func TestAnalyze_NoMatches_UsesDefaults(t *testing.T) {
	svc := NewQueryAnalysisService(nil, time.Second)

	intent := svc.Analyze(context.Background(), "아무 관련 없는 질문")

	assert.Equal(t, entities.DefaultKeywords, intent.Keywords)
	assert.Equal(t, entities.DefaultCategories, intent.Categories)
	assert.InDelta(t, 0.7, intent.Confidence, 1e-9)
}

func TestAnalyze_MultipleVocabularies(t *testing.T) {
	svc := NewQueryAnalysisService(nil, time.Second)

	intent := svc.Analyze(context.Background(), "역사 유적과 자연을 함께 체험")

	assert.Contains(t, intent.Categories, entities.CategoryHeritage)
	assert.Contains(t, intent.Categories, entities.CategoryNature)
	assert.Contains(t, intent.Categories, entities.CategoryExperience)
}

func TestAnalyze_ModelError_FallsBack(t *testing.T) {
	model := &stubModel{err: errors.New("boom")}
	svc := NewQueryAnalysisService(model, time.Second)

	intent := svc.Analyze(context.Background(), "계곡 여행")

	assert.False(t, intent.UsedModel)
	assert.InDelta(t, 0.7, intent.Confidence, 1e-9)
	assert.Equal(t, 1, model.calls)
}

func TestAnalyze_ModelJSONResponse(t *testing.T) {
	model := &stubModel{response: `분석 결과입니다: {
		"keywords": ["계곡", "휴식"],
		"categories": ["자연관광지"],
		"locations": ["빙계리"],
		"intent": "nature_rest",
		"processed_query": "조용한 계곡",
		"confidence": 0.92
	} 끝.`}
	svc := NewQueryAnalysisService(model, time.Second)

	intent := svc.Analyze(context.Background(), "조용한 계곡에서 쉬고 싶어요")

	require.True(t, intent.UsedModel)
	assert.Equal(t, []string{"계곡", "휴식"}, intent.Keywords)
	assert.Equal(t, []string{entities.CategoryNature}, intent.Categories)
	assert.Equal(t, []string{"빙계리"}, intent.Locations)
	assert.Equal(t, "nature_rest", intent.Label)
	assert.Equal(t, "조용한 계곡", intent.ProcessedQuery)
	assert.InDelta(t, 0.92, intent.Confidence, 1e-9)
}

func TestAnalyze_ModelResponseWithoutBraces(t *testing.T) {
	model := &stubModel{response: "계곡 추천"}
	svc := NewQueryAnalysisService(model, time.Second)

	intent := svc.Analyze(context.Background(), "계곡")

	assert.True(t, intent.UsedModel)
	assert.Equal(t, []string{"계곡 추천"}, intent.Keywords)
	assert.InDelta(t, 0.5, intent.Confidence, 1e-9)
}

func TestAnalyze_ModelResponseMalformedJSON(t *testing.T) {
	model := &stubModel{response: `{"keywords": [unterminated`}
	svc := NewQueryAnalysisService(model, time.Second)

	intent := svc.Analyze(context.Background(), "계곡")

	assert.True(t, intent.UsedModel)
	assert.Equal(t, "unknown", intent.Label)
	assert.InDelta(t, 0.3, intent.Confidence, 1e-9)
}

func TestAnalyze_ConfidenceClamped(t *testing.T) {
	model := &stubModel{response: `{"keywords": ["계곡"], "confidence": 3.5}`}
	svc := NewQueryAnalysisService(model, time.Second)

	intent := svc.Analyze(context.Background(), "계곡")
	assert.InDelta(t, 1.0, intent.Confidence, 1e-9)

	model.response = `{"keywords": ["계곡"], "confidence": -2}`
	intent = svc.Analyze(context.Background(), "다른 계곡")
	assert.InDelta(t, 0.0, intent.Confidence, 1e-9)
}

func TestAnalyze_CacheHitSkipsModel(t *testing.T) {
	model := &stubModel{response: `{"keywords": ["계곡"], "confidence": 0.9}`}
	svc := NewQueryAnalysisService(model, time.Second)
	svc.SetCache(newMemoryCache())

	first := svc.Analyze(context.Background(), "계곡 여행")
	second := svc.Analyze(context.Background(), "계곡 여행")

	assert.Equal(t, 1, model.calls)
	assert.Equal(t, first.Keywords, second.Keywords)
}

func TestAnalyze_CacheKeyCaseInsensitive(t *testing.T) {
	model := &stubModel{response: `{"keywords": ["valley"], "confidence": 0.9}`}
	svc := NewQueryAnalysisService(model, time.Second)
	svc.SetCache(newMemoryCache())

	svc.Analyze(context.Background(), "Quiet Valley")
	svc.Analyze(context.Background(), "quiet valley")

	assert.Equal(t, 1, model.calls)
}

func TestAnalyze_EmptyQuery(t *testing.T) {
	svc := NewQueryAnalysisService(nil, time.Second)

	intent := svc.Analyze(context.Background(), "   ")

	assert.Equal(t, entities.DefaultKeywords, intent.Keywords)
	assert.Equal(t, entities.DefaultCategories, intent.Categories)
	assert.InDelta(t, 0.7, intent.Confidence, 1e-9)
}
