package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/uscheck/uiseong-tourism/backend/internal/adapters/database"
	"github.com/uscheck/uiseong-tourism/backend/internal/adapters/search"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/postgres"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/typesense"
	"github.com/uscheck/uiseong-tourism/backend/pkg/config"
)

func main() {
	var reset bool
	var catalogFile string
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&catalogFile, "file", "", "JSON catalog file to import into the database before indexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset, catalogFile); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		catalogFile = ""
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool, catalogFile string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	spotRepo := database.NewSpotAdapter(pgClient)

	if catalogFile != "" {
		imported, err := importCatalog(ctx, catalogFile, spotRepo)
		if err != nil {
			return err
		}
		log.Printf("Imported %d spots from %s", imported, catalogFile)
	}

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Reset requested, deleting spots collection")
		_, err := tsClient.Client().Collection(typesense.SpotsCollection).Delete(ctx)
		if err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	spots, err := spotRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	log.Printf("Indexing %d spots...", len(spots))

	searchAdapter := search.NewTypesenseAdapter(tsClient)
	indexed := 0
	for _, spot := range spots {
		if spot == nil {
			continue
		}
		if err := searchAdapter.Index(ctx, spot); err != nil {
			log.Printf("Warning: failed to index spot %s: %v", spot.ID, err)
			continue
		}
		indexed++
	}

	log.Printf("Indexed %d/%d spots", indexed, len(spots))
	return nil
}

// catalogRecord mirrors the raw tour API export format. Identifiers and
// coordinates arrive as strings.
type catalogRecord struct {
	ContentID string `json:"contentid"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Addr1     string `json:"addr1"`
	Addr2     string `json:"addr2"`
	Overview  string `json:"overview"`
	Tel       string `json:"tel"`
	Homepage  string `json:"homepage"`
	Image     string `json:"firstimage"`
	Image2    string `json:"firstimage2"`
	MapX      string `json:"mapx"`
	MapY      string `json:"mapy"`
}

func importCatalog(ctx context.Context, path string, repo interface {
	Create(ctx context.Context, spot *entities.Spot) error
}) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var records []catalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	imported := 0
	for _, record := range records {
		title := strings.TrimSpace(record.Title)
		if title == "" {
			continue
		}

		spot := &entities.Spot{
			ID:        strings.TrimSpace(record.ContentID),
			Title:     title,
			Category:  normalizeCategory(record.Category),
			Address:   strings.TrimSpace(record.Addr1),
			Address2:  strings.TrimSpace(record.Addr2),
			Overview:  strings.TrimSpace(record.Overview),
			Tel:       strings.TrimSpace(record.Tel),
			Homepage:  strings.TrimSpace(record.Homepage),
			ImageURL:  strings.TrimSpace(record.Image),
			ImageURL2: strings.TrimSpace(record.Image2),
			Location:  parseLocation(record.MapY, record.MapX),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if spot.ID == "" {
			spot.ID = uuid.NewString()
		}

		if err := repo.Create(ctx, spot); err != nil {
			log.Printf("Warning: failed to import spot %q: %v", title, err)
			continue
		}
		imported++
	}

	return imported, nil
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return entities.CategoryGeneral
	}
	for _, known := range entities.Categories() {
		if category == known {
			return category
		}
	}
	return category
}

func parseLocation(lat, lng string) *entities.Location {
	latVal, latErr := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	lngVal, lngErr := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if latErr != nil || lngErr != nil {
		return nil
	}
	if latVal == 0 && lngVal == 0 {
		return nil
	}
	return &entities.Location{Latitude: latVal, Longitude: lngVal}
}
