package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/providers"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/repositories"
	apperrors "github.com/uscheck/uiseong-tourism/backend/pkg/errors"
)

const (
	defaultMaxResults   = 20
	defaultHistoryLimit = 10
	descriptionTimeout  = 10 * time.Second
	maxDescriptionSpots = 15
)

// RecommendResult is the outcome of one recommend call.
type RecommendResult struct {
	SelectionID      string
	SessionID        string
	Query            string
	Intent           *entities.Intent
	RecommendedSpots []entities.ScoredSpot
	TotalCount       int
	Timestamp        time.Time
}

// FinalizeResult is the outcome of finalizing a selection. Attachment
// failure is reported, never fatal.
type FinalizeResult struct {
	Selection         *entities.Selection
	SelectedSpots     []*entities.Spot
	QRCodeURL         string
	QRAccessURL       string
	TravelDescription string
	AttachmentError   string
}

// RecommendationService composes the analyzer and the ranker into the three
// public operations: recommend, finalize and history. All collaborators are
// injected; cache, model, attachments, analytics and event bus are optional.
type RecommendationService struct {
	spotRepo      repositories.SpotRepository
	selectionRepo repositories.SelectionRepository
	analyzer      *QueryAnalysisService
	ranker        *RelevanceRankingService
	model         providers.LanguageModelProvider
	attachments   providers.AttachmentProvider
	analytics     *QueryAnalyticsService
	eventBus      providers.EventBus
	maxResults    int
	historyLimit  int
}

// NewRecommendationService creates a new recommendation orchestrator.
func NewRecommendationService(
	spotRepo repositories.SpotRepository,
	selectionRepo repositories.SelectionRepository,
	analyzer *QueryAnalysisService,
	ranker *RelevanceRankingService,
	model providers.LanguageModelProvider,
	attachments providers.AttachmentProvider,
) *RecommendationService {
	return &RecommendationService{
		spotRepo:      spotRepo,
		selectionRepo: selectionRepo,
		analyzer:      analyzer,
		ranker:        ranker,
		model:         model,
		attachments:   attachments,
		maxResults:    defaultMaxResults,
		historyLimit:  defaultHistoryLimit,
	}
}

// SetAnalytics attaches the query analytics recorder.
func (s *RecommendationService) SetAnalytics(analytics *QueryAnalyticsService) {
	s.analytics = analytics
}

// SetEventBus attaches the selection event bus.
func (s *RecommendationService) SetEventBus(bus providers.EventBus) {
	s.eventBus = bus
}

// SetLimits overrides the default result and history limits.
func (s *RecommendationService) SetLimits(maxResults, historyLimit int) {
	if maxResults > 0 {
		s.maxResults = maxResults
	}
	if historyLimit > 0 {
		s.historyLimit = historyLimit
	}
}

// Recommend analyzes the query, ranks the full catalog against the derived
// intent and records a pending selection holding the recommended spot ids.
// An empty catalog yields an empty ranked list, not an error.
func (s *RecommendationService) Recommend(ctx context.Context, query, sessionID, userID string) (*RecommendResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query is required")
	}

	intent := s.analyzer.Analyze(ctx, query)

	spots, err := s.spotRepo.ListAll(ctx)
	if err != nil {
		// Catalog read failures degrade to an empty result set.
		log.Warn().Err(err).Msg("catalog unavailable, recommending over empty catalog")
		spots = nil
	}

	ranked := s.ranker.Rank(intent, spots, s.maxResults)

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := time.Now().UTC()
	selection := &entities.Selection{
		ID:                 uuid.NewString(),
		SessionID:          sessionID,
		UserID:             userID,
		OriginalQuery:      query,
		ProcessedQuery:     intent.ProcessedQuery,
		Intent:             intent,
		RecommendedSpotIDs: spotIDs(ranked),
		Status:             entities.SelectionStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.selectionRepo.Create(ctx, selection); err != nil {
		return nil, apperrors.NewExternalError("failed to persist selection", err)
	}

	s.recordQueryEvent(ctx, query, intent, len(ranked), sessionID)
	s.publishEvent(ctx, &entities.SelectionEvent{
		Type:        entities.SelectionEventCreated,
		SelectionID: selection.ID,
		SessionID:   sessionID,
		Timestamp:   now,
	})

	log.Info().
		Str("query", query).
		Str("selection_id", selection.ID).
		Int("spots", len(ranked)).
		Bool("used_model", intent.UsedModel).
		Msg("query processed")

	return &RecommendResult{
		SelectionID:      selection.ID,
		SessionID:        sessionID,
		Query:            query,
		Intent:           intent,
		RecommendedSpots: ranked,
		TotalCount:       len(ranked),
		Timestamp:        now,
	}, nil
}

// Finalize completes a pending selection with the spots the user chose.
// Chosen ids that do not resolve against the catalog are dropped silently;
// attachment generation failure is reported in the result but does not fail
// the operation.
func (s *RecommendationService) Finalize(ctx context.Context, selectionID string, chosenSpotIDs []string) (*FinalizeResult, error) {
	if selectionID == "" {
		return nil, apperrors.NewValidationError("selection_id is required")
	}
	if len(chosenSpotIDs) == 0 {
		return nil, apperrors.NewValidationError("selected_spot_ids is required")
	}

	selection, err := s.selectionRepo.GetByID(ctx, selectionID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to load selection", err)
	}
	if selection == nil {
		return nil, apperrors.NewNotFoundError("selection record not found")
	}

	spots, err := s.spotRepo.GetByIDs(ctx, chosenSpotIDs)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to resolve selected spots", err)
	}
	if len(spots) < len(chosenSpotIDs) {
		log.Warn().
			Str("selection_id", selectionID).
			Int("requested", len(chosenSpotIDs)).
			Int("resolved", len(spots)).
			Msg("dropped unresolvable spot ids from final selection")
	}

	now := time.Now().UTC()
	selection.SelectedSpotIDs = make([]string, 0, len(spots))
	for _, spot := range spots {
		selection.SelectedSpotIDs = append(selection.SelectedSpotIDs, spot.ID)
	}
	selection.Status = entities.SelectionStatusCompleted
	selection.UpdatedAt = now

	result := &FinalizeResult{
		Selection:     selection,
		SelectedSpots: spots,
	}

	s.generateAttachment(ctx, selection, spots, result)
	result.TravelDescription = s.generateDescription(ctx, spots)
	selection.TravelDescription = result.TravelDescription

	if err := s.selectionRepo.Update(ctx, selection); err != nil {
		return nil, apperrors.NewExternalError("failed to update selection", err)
	}

	s.publishEvent(ctx, &entities.SelectionEvent{
		Type:        entities.SelectionEventFinalized,
		SelectionID: selection.ID,
		SessionID:   selection.SessionID,
		SpotIDs:     selection.SelectedSpotIDs,
		Timestamp:   now,
	})

	log.Info().
		Str("selection_id", selection.ID).
		Int("spots", len(spots)).
		Msg("selection finalized")

	return result, nil
}

// History returns the most recent selections, newest first. With neither
// session nor user filter it returns recent selections across ALL sessions;
// this global fallback mirrors the legacy behavior and is intentionally not
// user-isolated.
func (s *RecommendationService) History(ctx context.Context, sessionID, userID string, limit int) ([]*entities.Selection, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}

	selections, err := s.selectionRepo.List(ctx, repositories.SelectionFilter{
		SessionID: sessionID,
		UserID:    userID,
		Limit:     limit,
	})
	if err != nil {
		// Read failures surface as an empty history, not an error.
		log.Warn().Err(err).Msg("selection store unavailable, returning empty history")
		return []*entities.Selection{}, nil
	}

	return selections, nil
}

func (s *RecommendationService) generateAttachment(ctx context.Context, selection *entities.Selection, spots []*entities.Spot, result *FinalizeResult) {
	if s.attachments == nil {
		return
	}

	payload := &providers.AttachmentPayload{
		SelectionID:   selection.ID,
		SessionID:     selection.SessionID,
		UserID:        selection.UserID,
		OriginalQuery: selection.OriginalQuery,
		Timestamp:     selection.UpdatedAt,
	}
	for _, spot := range spots {
		payload.Spots = append(payload.Spots, providers.SpotBrief{
			ID:       spot.ID,
			Title:    spot.Title,
			Category: spot.Category,
			Address:  spot.Address,
		})
	}

	attachment, err := s.attachments.Generate(ctx, payload)
	if err != nil {
		log.Warn().Err(err).Str("selection_id", selection.ID).Msg("attachment generation failed")
		result.AttachmentError = err.Error()
		return
	}
	if !attachment.Success {
		result.AttachmentError = attachment.Message
		return
	}

	result.QRCodeURL = attachment.QRURL
	result.QRAccessURL = attachment.AccessURL
	selection.QRCodeURL = attachment.QRURL
	selection.QRAccessURL = attachment.AccessURL
}

// generateDescription asks the language model for a combined travel
// description of the chosen spots. Any failure yields an empty string.
func (s *RecommendationService) generateDescription(ctx context.Context, spots []*entities.Spot) string {
	if s.model == nil || len(spots) == 0 {
		return ""
	}

	modelCtx, cancel := context.WithTimeout(ctx, descriptionTimeout)
	defer cancel()

	description, err := s.model.Complete(modelCtx, buildDescriptionPrompt(spots))
	if err != nil {
		log.Warn().Err(err).Msg("travel description generation failed")
		return ""
	}
	return strings.TrimSpace(description)
}

func (s *RecommendationService) recordQueryEvent(ctx context.Context, query string, intent *entities.Intent, resultCount int, sessionID string) {
	if s.analytics == nil {
		return
	}
	s.analytics.Record(ctx, &entities.QueryEvent{
		Query:       query,
		IntentLabel: intent.Label,
		Categories:  intent.Categories,
		UsedModel:   intent.UsedModel,
		Confidence:  intent.Confidence,
		ResultCount: resultCount,
		SessionID:   sessionID,
	})
}

func (s *RecommendationService) publishEvent(ctx context.Context, event *entities.SelectionEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelSelections, event); err != nil {
		log.Warn().Err(err).Str("type", event.Type).Msg("failed to publish selection event")
	}
}

func buildDescriptionPrompt(spots []*entities.Spot) string {
	if len(spots) > maxDescriptionSpots {
		spots = spots[:maxDescriptionSpots]
	}

	var lines []string
	for _, spot := range spots {
		lines = append(lines, fmt.Sprintf("- %s: %s", spot.Title, spot.Overview))
	}

	return fmt.Sprintf(`다음 의성군 관광지들에 대한 매력적인 여행 설명을 작성해주세요:

%s

요구사항:
1. 각 관광지의 특색을 살린 설명
2. 의성군의 지역 특색 포함
3. 방문객들이 흥미를 느낄 수 있는 내용
4. 200-300자 내외`, strings.Join(lines, "\n"))
}

func spotIDs(scored []entities.ScoredSpot) []string {
	ids := make([]string, 0, len(scored))
	for _, s := range scored {
		ids = append(ids, s.Spot.ID)
	}
	return ids
}
