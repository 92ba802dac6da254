package routes

import (
	"net/http"

	"github.com/uscheck/uiseong-tourism/backend/internal/api/handlers"
	"github.com/uscheck/uiseong-tourism/backend/internal/api/middleware"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	recommendationHandler *handlers.RecommendationHandler
	spotHandler           *handlers.SpotHandler
	analyticsHandler      *handlers.AnalyticsHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	recommendationHandler *handlers.RecommendationHandler,
	spotHandler *handlers.SpotHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                   http.NewServeMux(),
		recommendationHandler: recommendationHandler,
		spotHandler:           spotHandler,
		analyticsHandler:      analyticsHandler,
		cacheMiddleware:       cacheMiddleware,
		metrics:               metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Recommendation cycle endpoints
	r.mux.HandleFunc("POST /api/recommendations", r.recommendationHandler.Recommend)
	r.mux.HandleFunc("POST /api/selections/finalize", r.recommendationHandler.Finalize)
	r.mux.HandleFunc("GET /api/selections", r.recommendationHandler.History)

	// Catalog endpoints
	r.mux.HandleFunc("GET /api/spots", r.spotHandler.ListSpots)
	r.mux.HandleFunc("GET /api/spots/search", r.spotHandler.SearchSpots)
	r.mux.HandleFunc("GET /api/spots/popular", r.spotHandler.PopularSpots)
	r.mux.HandleFunc("GET /api/spots/with-images", r.spotHandler.SpotsWithImages)
	r.mux.HandleFunc("GET /api/spots/stats", r.spotHandler.SpotStatistics)
	r.mux.HandleFunc("GET /api/spots/{id}", r.spotHandler.GetSpot)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/analytics/queries/top", r.analyticsHandler.TopQueries)
	r.mux.HandleFunc("GET /api/analytics/queries/recent", r.analyticsHandler.RecentQueries)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
