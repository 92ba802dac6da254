package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uscheck/uiseong-tourism/backend/internal/adapters/cache"
	"github.com/uscheck/uiseong-tourism/backend/internal/adapters/database"
	"github.com/uscheck/uiseong-tourism/backend/internal/adapters/events"
	"github.com/uscheck/uiseong-tourism/backend/internal/adapters/providers/attachments"
	"github.com/uscheck/uiseong-tourism/backend/internal/adapters/search"
	"github.com/uscheck/uiseong-tourism/backend/internal/api/handlers"
	"github.com/uscheck/uiseong-tourism/backend/internal/api/middleware"
	"github.com/uscheck/uiseong-tourism/backend/internal/api/routes"
	"github.com/uscheck/uiseong-tourism/backend/internal/application/services"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/providers"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/repositories"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/gemini"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/postgres"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/redis"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/typesense"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/observability"
	"github.com/uscheck/uiseong-tourism/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		log.Println("Typesense client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters

	baseSpotAdapter := database.NewSpotAdapter(pgClient)

	// Wrap with caching if Redis is available
	var spotAdapter repositories.SpotRepository
	if cacheProvider != nil {
		spotAdapter = database.NewCachedSpotAdapter(baseSpotAdapter, cacheProvider)
		log.Println("Spot adapter wrapped with caching layer")
	} else {
		spotAdapter = baseSpotAdapter
		log.Println("Spot adapter running without cache (Redis unavailable)")
	}

	selectionAdapter := database.NewSelectionAdapter(pgClient)
	analyticsAdapter := database.NewQueryAnalyticsAdapter(pgClient)

	var searchRepo repositories.SpotSearchRepository
	if typesenseClient != nil {
		if err := typesenseClient.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = search.NewTypesenseAdapter(typesenseClient)
	}

	// Initialize event bus for real-time updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize the language model provider. Without an API key every
	// query falls back to keyword analysis.
	var model providers.LanguageModelProvider
	if cfg.Gemini.APIKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set; using keyword-only query analysis")
	} else {
		geminiClient, err := gemini.NewClient(&cfg.Gemini)
		if err != nil {
			log.Printf("Warning: Failed to initialize Gemini client: %v", err)
		} else {
			model = geminiClient
		}
	}

	attachmentProvider := attachments.NewAttachmentProvider(&cfg.QR)

	// Initialize services

	analyzer := services.NewQueryAnalysisService(model, time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second)
	if cacheProvider != nil {
		analyzer.SetCache(cacheProvider)
	}

	ranker := services.NewRelevanceRankingService()

	recommendationService := services.NewRecommendationService(
		spotAdapter,
		selectionAdapter,
		analyzer,
		ranker,
		model,
		attachmentProvider,
	)
	recommendationService.SetLimits(cfg.Recommendation.MaxResults, cfg.Recommendation.HistoryLimit)

	analyticsService := services.NewQueryAnalyticsService(analyticsAdapter)
	recommendationService.SetAnalytics(analyticsService)

	if eventBus != nil {
		recommendationService.SetEventBus(eventBus)
		log.Println("Event bus configured for recommendation service")
	}

	spotService := services.NewSpotService(spotAdapter, searchRepo)

	// Initialize handlers

	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	spotHandler := handlers.NewSpotHandler(spotService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		recommendationHandler,
		spotHandler,
		analyticsHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
