package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/repositories"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/uscheck/uiseong-tourism/backend/pkg/errors"
)

var spotColumns = []interface{}{
	"id", "title", "category", "addr1", "addr2", "overview", "tags",
	"tel", "homepage", "firstimage", "firstimage2", "latitude", "longitude",
	"popularity_count", "is_active", "created_at", "updated_at",
}

// SpotAdapter implements SpotRepository on Postgres
type SpotAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSpotAdapter creates a new spot adapter
func NewSpotAdapter(client *postgres.Client) repositories.SpotRepository {
	return &SpotAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new spot
func (a *SpotAdapter) Create(ctx context.Context, spot *entities.Spot) error {
	var latitude, longitude sql.NullFloat64
	if spot.Location != nil {
		latitude = sql.NullFloat64{Float64: spot.Location.Latitude, Valid: true}
		longitude = sql.NullFloat64{Float64: spot.Location.Longitude, Valid: true}
	}

	record := goqu.Record{
		"id":               spot.ID,
		"title":            spot.Title,
		"category":         spot.Category,
		"addr1":            spot.Address,
		"addr2":            sql.NullString{String: spot.Address2, Valid: spot.Address2 != ""},
		"overview":         spot.Overview,
		"tags":             pq.Array(spot.Tags),
		"tel":              sql.NullString{String: spot.Tel, Valid: spot.Tel != ""},
		"homepage":         sql.NullString{String: spot.Homepage, Valid: spot.Homepage != ""},
		"firstimage":       sql.NullString{String: spot.ImageURL, Valid: spot.ImageURL != ""},
		"firstimage2":      sql.NullString{String: spot.ImageURL2, Valid: spot.ImageURL2 != ""},
		"latitude":         latitude,
		"longitude":        longitude,
		"popularity_count": spot.PopularityCount,
		"is_active":        spot.IsActive,
		"created_at":       spot.CreatedAt,
		"updated_at":       spot.UpdatedAt,
	}

	query, args, err := a.db.Insert("spots").Rows(record).
		OnConflict(goqu.DoUpdate("id", record)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create spot", err)
	}

	return nil
}

// GetByID retrieves a spot by ID
func (a *SpotAdapter) GetByID(ctx context.Context, id string) (*entities.Spot, error) {
	query, args, err := a.db.Select(spotColumns...).
		From("spots").
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	spot, err := a.scanSpot(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("spot with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get spot", err)
	}

	return spot, nil
}

// GetByIDs retrieves multiple spots by their IDs. Unknown ids are absent
// from the result.
func (a *SpotAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Spot, error) {
	if len(ids) == 0 {
		return []*entities.Spot{}, nil
	}

	query, args, err := a.db.Select(spotColumns...).
		From("spots").
		Where(goqu.Ex{"id": ids, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.querySpots(ctx, query, args)
}

// ListAll retrieves all active spots in stable insertion order
func (a *SpotAdapter) ListAll(ctx context.Context) ([]*entities.Spot, error) {
	query, args, err := a.db.Select(spotColumns...).
		From("spots").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.querySpots(ctx, query, args)
}

// ListByCategory retrieves active spots whose category contains the value
func (a *SpotAdapter) ListByCategory(ctx context.Context, category string) ([]*entities.Spot, error) {
	query, args, err := a.db.Select(spotColumns...).
		From("spots").
		Where(
			goqu.Ex{"is_active": true},
			goqu.I("category").ILike("%"+category+"%"),
		).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.querySpots(ctx, query, args)
}

// Search retrieves active spots matching any keyword across title,
// overview, category and address
func (a *SpotAdapter) Search(ctx context.Context, keywords []string) ([]*entities.Spot, error) {
	if len(keywords) == 0 {
		return a.ListAll(ctx)
	}

	conditions := make([]goqu.Expression, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		pattern := "%" + keyword + "%"
		conditions = append(conditions, goqu.Or(
			goqu.I("title").ILike(pattern),
			goqu.I("overview").ILike(pattern),
			goqu.I("category").ILike(pattern),
			goqu.I("addr1").ILike(pattern),
		))
	}
	if len(conditions) == 0 {
		return a.ListAll(ctx)
	}

	query, args, err := a.db.Select(spotColumns...).
		From("spots").
		Where(goqu.Ex{"is_active": true}, goqu.Or(conditions...)).
		Order(goqu.I("popularity_count").Desc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.querySpots(ctx, query, args)
}

func (a *SpotAdapter) querySpots(ctx context.Context, query string, args []interface{}) ([]*entities.Spot, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query spots", err)
	}
	defer rows.Close()

	spots := []*entities.Spot{}
	for rows.Next() {
		spot, err := a.scanSpot(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan spot", err)
		}
		spots = append(spots, spot)
	}

	return spots, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *SpotAdapter) scanSpot(row rowScanner) (*entities.Spot, error) {
	spot := &entities.Spot{}
	var addr2, tel, homepage, firstimage, firstimage2 sql.NullString
	var latitude, longitude sql.NullFloat64

	err := row.Scan(
		&spot.ID,
		&spot.Title,
		&spot.Category,
		&spot.Address,
		&addr2,
		&spot.Overview,
		pq.Array(&spot.Tags),
		&tel,
		&homepage,
		&firstimage,
		&firstimage2,
		&latitude,
		&longitude,
		&spot.PopularityCount,
		&spot.IsActive,
		&spot.CreatedAt,
		&spot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	spot.Address2 = addr2.String
	spot.Tel = tel.String
	spot.Homepage = homepage.String
	spot.ImageURL = firstimage.String
	spot.ImageURL2 = firstimage2.String
	if latitude.Valid && longitude.Valid {
		spot.Location = &entities.Location{
			Latitude:  latitude.Float64,
			Longitude: longitude.Float64,
		}
	}

	return spot, nil
}
