package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/entities"
	"github.com/uscheck/uiseong-tourism/backend/internal/domain/repositories"
	"github.com/uscheck/uiseong-tourism/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/uscheck/uiseong-tourism/backend/pkg/errors"
)

var selectionColumns = []interface{}{
	"id", "session_id", "user_id", "original_query", "processed_query",
	"intent", "recommended_spot_ids", "selected_spot_ids", "status",
	"qr_code_url", "qr_access_url", "travel_description",
	"created_at", "updated_at",
}

// SelectionAdapter implements SelectionRepository on Postgres. The intent
// column is jsonb; the spot id lists are text arrays.
type SelectionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSelectionAdapter creates a new selection adapter
func NewSelectionAdapter(client *postgres.Client) repositories.SelectionRepository {
	return &SelectionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new selection record
func (a *SelectionAdapter) Create(ctx context.Context, selection *entities.Selection) error {
	record, err := a.toRecord(selection)
	if err != nil {
		return err
	}

	query, args, err := a.db.Insert("selections").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create selection", err)
	}

	return nil
}

// GetByID retrieves a selection by ID, nil when not found
func (a *SelectionAdapter) GetByID(ctx context.Context, id string) (*entities.Selection, error) {
	query, args, err := a.db.Select(selectionColumns...).
		From("selections").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	selection, err := a.scanSelection(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get selection", err)
	}

	return selection, nil
}

// Update overwrites the mutable fields of a selection, last writer wins
func (a *SelectionAdapter) Update(ctx context.Context, selection *entities.Selection) error {
	record, err := a.toRecord(selection)
	if err != nil {
		return err
	}
	delete(record, "id")
	delete(record, "created_at")
	record["updated_at"] = time.Now().UTC()

	query, args, err := a.db.Update("selections").
		Set(record).
		Where(goqu.Ex{"id": selection.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update selection", err)
	}

	return nil
}

// List retrieves selections newest-first
func (a *SelectionAdapter) List(ctx context.Context, filter repositories.SelectionFilter) ([]*entities.Selection, error) {
	conditions := goqu.Ex{}
	if filter.SessionID != "" {
		conditions["session_id"] = filter.SessionID
	}
	if filter.UserID != "" {
		conditions["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		conditions["status"] = filter.Status
	}

	builder := a.db.Select(selectionColumns...).
		From("selections").
		Where(conditions).
		Order(goqu.I("created_at").Desc())
	if filter.Limit > 0 {
		builder = builder.Limit(uint(filter.Limit))
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query selections", err)
	}
	defer rows.Close()

	selections := []*entities.Selection{}
	for rows.Next() {
		selection, err := a.scanSelection(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan selection", err)
		}
		selections = append(selections, selection)
	}

	return selections, rows.Err()
}

func (a *SelectionAdapter) toRecord(selection *entities.Selection) (goqu.Record, error) {
	var intentJSON []byte
	if selection.Intent != nil {
		data, err := json.Marshal(selection.Intent)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to marshal intent", err)
		}
		intentJSON = data
	}

	return goqu.Record{
		"id":                   selection.ID,
		"session_id":           selection.SessionID,
		"user_id":              sql.NullString{String: selection.UserID, Valid: selection.UserID != ""},
		"original_query":       selection.OriginalQuery,
		"processed_query":      selection.ProcessedQuery,
		"intent":               intentJSON,
		"recommended_spot_ids": pq.Array(selection.RecommendedSpotIDs),
		"selected_spot_ids":    pq.Array(selection.SelectedSpotIDs),
		"status":               selection.Status,
		"qr_code_url":          sql.NullString{String: selection.QRCodeURL, Valid: selection.QRCodeURL != ""},
		"qr_access_url":        sql.NullString{String: selection.QRAccessURL, Valid: selection.QRAccessURL != ""},
		"travel_description":   sql.NullString{String: selection.TravelDescription, Valid: selection.TravelDescription != ""},
		"created_at":           selection.CreatedAt,
		"updated_at":           selection.UpdatedAt,
	}, nil
}

func (a *SelectionAdapter) scanSelection(row rowScanner) (*entities.Selection, error) {
	selection := &entities.Selection{}
	var userID, qrCodeURL, qrAccessURL, travelDescription sql.NullString
	var intentJSON []byte

	err := row.Scan(
		&selection.ID,
		&selection.SessionID,
		&userID,
		&selection.OriginalQuery,
		&selection.ProcessedQuery,
		&intentJSON,
		pq.Array(&selection.RecommendedSpotIDs),
		pq.Array(&selection.SelectedSpotIDs),
		&selection.Status,
		&qrCodeURL,
		&qrAccessURL,
		&travelDescription,
		&selection.CreatedAt,
		&selection.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	selection.UserID = userID.String
	selection.QRCodeURL = qrCodeURL.String
	selection.QRAccessURL = qrAccessURL.String
	selection.TravelDescription = travelDescription.String
	if len(intentJSON) > 0 {
		intent := &entities.Intent{}
		if err := json.Unmarshal(intentJSON, intent); err == nil {
			selection.Intent = intent
		}
	}

	return selection, nil
}
