package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/providers"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/repositories"
	apperrors "github.com/uscheck/uiseong-tourism/backend/pkg/errors"
)

type stubSpotRepo struct {
	spots   []*entities.Spot
	listErr error
	idsErr  error
}

func (r *stubSpotRepo) Create(ctx context.Context, spot *entities.Spot) error { return nil }

func (r *stubSpotRepo) GetByID(ctx context.Context, id string) (*entities.Spot, error) {
	for _, spot := range r.spots {
		if spot.ID == id {
			return spot, nil
		}
	}
	return nil, apperrors.NewNotFoundError("spot not found")
}

func (r *stubSpotRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Spot, error) {
	if r.idsErr != nil {
		return nil, r.idsErr
	}
	var found []*entities.Spot
	for _, id := range ids {
		for _, spot := range r.spots {
			if spot.ID == id {
				found = append(found, spot)
			}
		}
	}
	return found, nil
}

func (r *stubSpotRepo) ListAll(ctx context.Context) ([]*entities.Spot, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.spots, nil
}

func (r *stubSpotRepo) ListByCategory(ctx context.Context, category string) ([]*entities.Spot, error) {
	return r.spots, nil
}

func (r *stubSpotRepo) Search(ctx context.Context, keywords []string) ([]*entities.Spot, error) {
	return r.spots, nil
}

type stubSelectionRepo struct {
	selections map[string]*entities.Selection
	createErr  error
	updateErr  error
	listErr    error
	lastFilter repositories.SelectionFilter
}

func newStubSelectionRepo() *stubSelectionRepo {
	return &stubSelectionRepo{selections: map[string]*entities.Selection{}}
}

func (r *stubSelectionRepo) Create(ctx context.Context, selection *entities.Selection) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.selections[selection.ID] = selection
	return nil
}

func (r *stubSelectionRepo) GetByID(ctx context.Context, id string) (*entities.Selection, error) {
	return r.selections[id], nil
}

func (r *stubSelectionRepo) Update(ctx context.Context, selection *entities.Selection) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.selections[selection.ID] = selection
	return nil
}

func (r *stubSelectionRepo) List(ctx context.Context, filter repositories.SelectionFilter) ([]*entities.Selection, error) {
	r.lastFilter = filter
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*entities.Selection
	for _, s := range r.selections {
		out = append(out, s)
	}
	return out, nil
}

type stubAttachments struct {
	result *providers.AttachmentResult
	err    error
}

func (a *stubAttachments) Generate(ctx context.Context, payload *providers.AttachmentPayload) (*providers.AttachmentResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

type publishedEvent struct {
	channel string
	event   *entities.SelectionEvent
}

type stubEventBus struct {
	published []publishedEvent
	err       error
}

func (b *stubEventBus) Publish(ctx context.Context, channel string, event *entities.SelectionEvent) error {
	b.published = append(b.published, publishedEvent{channel: channel, event: event})
	return b.err
}

func (b *stubEventBus) Close() error { return nil }

func quietValleyCatalog() []*entities.Spot {
	return []*entities.Spot{
		{ID: "a", Title: "빙계계곡", Category: entities.CategoryNature, Overview: "시원한 계곡"},
		{ID: "b", Title: "조문국 사적지", Category: entities.CategoryHeritage, Overview: "고대 왕국의 유적"},
		{ID: "c", Title: "의성 전통시장", Category: entities.CategoryFood, Overview: "마늘과 한우"},
	}
}

func newTestRecommendationService(spotRepo *stubSpotRepo, selectionRepo *stubSelectionRepo) *RecommendationService {
	analyzer := NewQueryAnalysisService(nil, time.Second)
	ranker := NewRelevanceRankingService()
	return NewRecommendationService(spotRepo, selectionRepo, analyzer, ranker, nil, nil)
}

func TestRecommend_QuietValleyRanksNatureFirst(t *testing.T) {
	spotRepo := &stubSpotRepo{spots: quietValleyCatalog()}
	selectionRepo := newStubSelectionRepo()
	svc := newTestRecommendationService(spotRepo, selectionRepo)

	result, err := svc.Recommend(context.Background(), "조용한 계곡에서 쉬고 싶어요", "", "")

	require.NoError(t, err)
	require.Len(t, result.RecommendedSpots, 3)
	assert.Equal(t, "a", result.RecommendedSpots[0].Spot.ID)
	assert.Equal(t, 3, result.TotalCount)
	assert.InDelta(t, 0.7, result.Intent.Confidence, 1e-9)
	assert.NotEmpty(t, result.SelectionID)
	assert.NotEmpty(t, result.SessionID)

	// A pending selection record was persisted with the recommended ids.
	stored := selectionRepo.selections[result.SelectionID]
	require.NotNil(t, stored)
	assert.Equal(t, entities.SelectionStatusPending, stored.Status)
	assert.Equal(t, "a", stored.RecommendedSpotIDs[0])
	assert.Len(t, stored.RecommendedSpotIDs, 3)
}

func TestRecommend_EmptyQueryRejected(t *testing.T) {
	svc := newTestRecommendationService(&stubSpotRepo{}, newStubSelectionRepo())

	_, err := svc.Recommend(context.Background(), "   ", "", "")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestRecommend_EmptyCatalogSucceeds(t *testing.T) {
	selectionRepo := newStubSelectionRepo()
	svc := newTestRecommendationService(&stubSpotRepo{}, selectionRepo)

	result, err := svc.Recommend(context.Background(), "계곡", "session-1", "")

	require.NoError(t, err)
	assert.Empty(t, result.RecommendedSpots)
	assert.Equal(t, 0, result.TotalCount)
	assert.Equal(t, "session-1", result.SessionID)
	assert.Len(t, selectionRepo.selections, 1)
}

func TestRecommend_CatalogErrorDegradesToEmpty(t *testing.T) {
	spotRepo := &stubSpotRepo{listErr: errors.New("db down")}
	svc := newTestRecommendationService(spotRepo, newStubSelectionRepo())

	result, err := svc.Recommend(context.Background(), "계곡", "", "")

	require.NoError(t, err)
	assert.Empty(t, result.RecommendedSpots)
}

func TestRecommend_SelectionPersistFailureFails(t *testing.T) {
	selectionRepo := newStubSelectionRepo()
	selectionRepo.createErr = errors.New("insert failed")
	svc := newTestRecommendationService(&stubSpotRepo{spots: quietValleyCatalog()}, selectionRepo)

	_, err := svc.Recommend(context.Background(), "계곡", "", "")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}

func TestRecommend_RespectsMaxResults(t *testing.T) {
	spotRepo := &stubSpotRepo{spots: quietValleyCatalog()}
	svc := newTestRecommendationService(spotRepo, newStubSelectionRepo())
	svc.SetLimits(2, 0)

	result, err := svc.Recommend(context.Background(), "계곡", "", "")

	require.NoError(t, err)
	assert.Len(t, result.RecommendedSpots, 2)
}

func TestFinalize_CompletesSelection(t *testing.T) {
	spotRepo := &stubSpotRepo{spots: quietValleyCatalog()}
	selectionRepo := newStubSelectionRepo()
	svc := newTestRecommendationService(spotRepo, selectionRepo)

	recommended, err := svc.Recommend(context.Background(), "계곡", "", "")
	require.NoError(t, err)

	result, err := svc.Finalize(context.Background(), recommended.SelectionID, []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, entities.SelectionStatusCompleted, result.Selection.Status)
	assert.Equal(t, []string{"a", "b"}, result.Selection.SelectedSpotIDs)
	assert.Len(t, result.SelectedSpots, 2)
	assert.Empty(t, result.AttachmentError)
}

func TestFinalize_UnknownSelectionNotFound(t *testing.T) {
	svc := newTestRecommendationService(&stubSpotRepo{}, newStubSelectionRepo())

	_, err := svc.Finalize(context.Background(), "missing", []string{"a"})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestFinalize_ValidatesInput(t *testing.T) {
	svc := newTestRecommendationService(&stubSpotRepo{}, newStubSelectionRepo())

	_, err := svc.Finalize(context.Background(), "", []string{"a"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)

	_, err = svc.Finalize(context.Background(), "sel-1", nil)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestFinalize_DropsUnresolvableSpotIDs(t *testing.T) {
	spotRepo := &stubSpotRepo{spots: quietValleyCatalog()}
	selectionRepo := newStubSelectionRepo()
	svc := newTestRecommendationService(spotRepo, selectionRepo)

	recommended, err := svc.Recommend(context.Background(), "계곡", "", "")
	require.NoError(t, err)

	result, err := svc.Finalize(context.Background(), recommended.SelectionID, []string{"a", "ghost"})

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Selection.SelectedSpotIDs)
	assert.Len(t, result.SelectedSpots, 1)
}

func TestFinalize_AttachmentFailureNonFatal(t *testing.T) {
	spotRepo := &stubSpotRepo{spots: quietValleyCatalog()}
	selectionRepo := newStubSelectionRepo()
	analyzer := NewQueryAnalysisService(nil, time.Second)
	svc := NewRecommendationService(
		spotRepo, selectionRepo, analyzer, NewRelevanceRankingService(), nil,
		&stubAttachments{err: errors.New("qr provider down")},
	)

	recommended, err := svc.Recommend(context.Background(), "계곡", "", "")
	require.NoError(t, err)

	result, err := svc.Finalize(context.Background(), recommended.SelectionID, []string{"a"})

	require.NoError(t, err)
	assert.Equal(t, entities.SelectionStatusCompleted, result.Selection.Status)
	assert.Equal(t, "qr provider down", result.AttachmentError)
	assert.Empty(t, result.QRCodeURL)
}

func TestFinalize_AttachmentSuccessPopulatesURLs(t *testing.T) {
	spotRepo := &stubSpotRepo{spots: quietValleyCatalog()}
	selectionRepo := newStubSelectionRepo()
	analyzer := NewQueryAnalysisService(nil, time.Second)
	svc := NewRecommendationService(
		spotRepo, selectionRepo, analyzer, NewRelevanceRankingService(), nil,
		&stubAttachments{result: &providers.AttachmentResult{
			Success:   true,
			QRURL:     "https://example.com/qr.png",
			AccessURL: "https://example.com/s/1",
		}},
	)

	recommended, err := svc.Recommend(context.Background(), "계곡", "", "")
	require.NoError(t, err)

	result, err := svc.Finalize(context.Background(), recommended.SelectionID, []string{"a"})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/qr.png", result.QRCodeURL)
	assert.Equal(t, "https://example.com/qr.png", result.Selection.QRCodeURL)
	assert.Equal(t, "https://example.com/s/1", result.QRAccessURL)
	assert.Equal(t, "https://example.com/s/1", result.Selection.QRAccessURL)
}

func TestFinalize_UpdateFailureFails(t *testing.T) {
	spotRepo := &stubSpotRepo{spots: quietValleyCatalog()}
	selectionRepo := newStubSelectionRepo()
	svc := newTestRecommendationService(spotRepo, selectionRepo)

	recommended, err := svc.Recommend(context.Background(), "계곡", "", "")
	require.NoError(t, err)

	selectionRepo.updateErr = errors.New("write failed")
	_, err = svc.Finalize(context.Background(), recommended.SelectionID, []string{"a"})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}

func TestRecommend_PublishesCreatedEvent(t *testing.T) {
	selectionRepo := newStubSelectionRepo()
	svc := newTestRecommendationService(&stubSpotRepo{spots: quietValleyCatalog()}, selectionRepo)
	bus := &stubEventBus{}
	svc.SetEventBus(bus)

	result, err := svc.Recommend(context.Background(), "계곡", "session-1", "")

	require.NoError(t, err)
	require.Len(t, bus.published, 1)
	assert.Equal(t, providers.EventChannelSelections, bus.published[0].channel)
	assert.Equal(t, entities.SelectionEventCreated, bus.published[0].event.Type)
	assert.Equal(t, result.SelectionID, bus.published[0].event.SelectionID)
	assert.Equal(t, "session-1", bus.published[0].event.SessionID)
}

func TestFinalize_PublishesFinalizedEvent(t *testing.T) {
	spotRepo := &stubSpotRepo{spots: quietValleyCatalog()}
	selectionRepo := newStubSelectionRepo()
	svc := newTestRecommendationService(spotRepo, selectionRepo)
	bus := &stubEventBus{}
	svc.SetEventBus(bus)

	recommended, err := svc.Recommend(context.Background(), "계곡", "", "")
	require.NoError(t, err)

	_, err = svc.Finalize(context.Background(), recommended.SelectionID, []string{"a", "b"})

	require.NoError(t, err)
	require.Len(t, bus.published, 2)
	finalized := bus.published[1]
	assert.Equal(t, providers.EventChannelSelections, finalized.channel)
	assert.Equal(t, entities.SelectionEventFinalized, finalized.event.Type)
	assert.Equal(t, []string{"a", "b"}, finalized.event.SpotIDs)
}

func TestRecommend_PublishFailureNonFatal(t *testing.T) {
	svc := newTestRecommendationService(&stubSpotRepo{spots: quietValleyCatalog()}, newStubSelectionRepo())
	svc.SetEventBus(&stubEventBus{err: errors.New("redis down")})

	result, err := svc.Recommend(context.Background(), "계곡", "", "")

	require.NoError(t, err)
	assert.NotEmpty(t, result.SelectionID)
}

func TestHistory_DefaultsLimit(t *testing.T) {
	selectionRepo := newStubSelectionRepo()
	svc := newTestRecommendationService(&stubSpotRepo{}, selectionRepo)

	_, err := svc.History(context.Background(), "session-1", "", 0)

	require.NoError(t, err)
	assert.Equal(t, 10, selectionRepo.lastFilter.Limit)
	assert.Equal(t, "session-1", selectionRepo.lastFilter.SessionID)
}

func TestHistory_StoreFailureYieldsEmpty(t *testing.T) {
	selectionRepo := newStubSelectionRepo()
	selectionRepo.listErr = errors.New("db down")
	svc := newTestRecommendationService(&stubSpotRepo{}, selectionRepo)

	selections, err := svc.History(context.Background(), "", "", 5)

	require.NoError(t, err)
	assert.Empty(t, selections)
}
