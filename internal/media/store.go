package media

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/database"
)

var ErrNoProxySettings = errors.New("no proxy settings have been saved")

type (
	mediaModel struct {
		ID           uuid.UUID       `db:"id"`
		OriginalPath string          `db:"original_path"`
		ProxyPath    sql.NullString  `db:"proxy_path"`
		MediaType    string          `db:"media_type"`
		DurationMs   sql.NullInt64   `db:"duration_ms"`
		Width        sql.NullInt32   `db:"width"`
		Height       sql.NullInt32   `db:"height"`
		FrameRate    sql.NullFloat64 `db:"frame_rate"`
		Codec        sql.NullString  `db:"codec"`
		Status       string          `db:"status"`
		StatusReason string          `db:"status_reason"`
		CreatedAt    time.Time       `db:"created_at"`
		UpdatedAt    time.Time       `db:"updated_at"`
	}

	proxySettingsModel struct {
		Resolution string `db:"resolution"`
		Width      int    `db:"resolution_width"`
		Height     int    `db:"resolution_height"`
		Codec      string `db:"codec"`
		Quality    int64  `db:"quality"`
	}

	// Store persists media records and the effective proxy settings to
	// postgres. The store is stateless; the Queryable provided to each
	// method may be a DB connection or a transaction.
	Store struct{}
)

var mediaColumns = []string{
	"id", "original_path", "proxy_path", "media_type", "duration_ms", "width", "height",
	"frame_rate", "codec", "status", "status_reason", "created_at", "updated_at",
}

// Save upserts the record provided, keyed on its ID.
func (store *Store) Save(db database.Queryable, record *Record) error {
	model := recordToModel(record)
	query, args, err := squirrel.
		Insert("media").
		Columns(mediaColumns...).
		Values(
			model.ID, model.OriginalPath, model.ProxyPath, model.MediaType, model.DurationMs, model.Width, model.Height,
			model.FrameRate, model.Codec, model.Status, model.StatusReason, model.CreatedAt, model.UpdatedAt,
		).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			proxy_path=EXCLUDED.proxy_path,
			media_type=EXCLUDED.media_type,
			duration_ms=EXCLUDED.duration_ms,
			width=EXCLUDED.width,
			height=EXCLUDED.height,
			frame_rate=EXCLUDED.frame_rate,
			codec=EXCLUDED.codec,
			status=EXCLUDED.status,
			status_reason=EXCLUDED.status_reason,
			updated_at=EXCLUDED.updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to construct save media query: %w", err)
	}

	if _, err := db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to save media %s: %w", record.ID, err)
	}

	return nil
}

// GetAll returns every media record persisted.
func (store *Store) GetAll(db database.Queryable) ([]*Record, error) {
	query, args, err := squirrel.Select(mediaColumns...).From("media").OrderBy("created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct list media query: %w", err)
	}

	var results []mediaModel
	if err := db.Select(&results, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}

	output := make([]*Record, len(results))
	for k, v := range results {
		output[k] = modelToRecord(&v)
	}

	return output, nil
}

// Delete removes the media record with the ID provided. Deleting a record
// which does not exist is not an error.
func (store *Store) Delete(db database.Queryable, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM media WHERE id=$1`, id)
	return err
}

func (store *Store) SaveProxySettings(db database.Queryable, settings ProxySettings) error {
	_, err := db.Exec(`
		INSERT INTO proxy_settings(id, resolution, resolution_width, resolution_height, codec, quality, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, current_timestamp)
		ON CONFLICT(id) DO UPDATE SET
			resolution=EXCLUDED.resolution,
			resolution_width=EXCLUDED.resolution_width,
			resolution_height=EXCLUDED.resolution_height,
			codec=EXCLUDED.codec,
			quality=EXCLUDED.quality,
			updated_at=EXCLUDED.updated_at
	`, string(settings.Resolution.Kind), settings.Resolution.Width, settings.Resolution.Height, settings.Codec, settings.Quality)
	if err != nil {
		return fmt.Errorf("failed to save proxy settings: %w", err)
	}

	return nil
}

// GetProxySettings returns the persisted proxy settings, or ErrNoProxySettings
// if none have been saved yet.
func (store *Store) GetProxySettings(db database.Queryable) (*ProxySettings, error) {
	var model proxySettingsModel
	err := db.Get(&model, `SELECT resolution, resolution_width, resolution_height, codec, quality FROM proxy_settings WHERE id=1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoProxySettings
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch proxy settings: %w", err)
	}

	resolution, err := ParseResolution(model.Resolution, model.Width, model.Height)
	if err != nil {
		return nil, fmt.Errorf("persisted proxy settings are invalid: %w", err)
	}

	return &ProxySettings{Resolution: resolution, Codec: model.Codec, Quality: uint32(model.Quality)}, nil
}

func recordToModel(record *Record) *mediaModel {
	model := &mediaModel{
		ID:           record.ID,
		OriginalPath: record.OriginalPath,
		MediaType:    string(record.Type),
		Status:       string(record.Status.Phase),
		StatusReason: record.Status.Reason,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}

	if record.ProxyPath != nil {
		model.ProxyPath = sql.NullString{String: *record.ProxyPath, Valid: true}
	}

	meta := record.Metadata
	if meta.DurationMs != nil {
		model.DurationMs = sql.NullInt64{Int64: *meta.DurationMs, Valid: true}
	}
	if meta.Width != nil {
		model.Width = sql.NullInt32{Int32: int32(*meta.Width), Valid: true}
	}
	if meta.Height != nil {
		model.Height = sql.NullInt32{Int32: int32(*meta.Height), Valid: true}
	}
	if meta.FrameRate != nil {
		model.FrameRate = sql.NullFloat64{Float64: *meta.FrameRate, Valid: true}
	}
	if meta.Codec != nil {
		model.Codec = sql.NullString{String: *meta.Codec, Valid: true}
	}

	return model
}

func modelToRecord(model *mediaModel) *Record {
	record := &Record{
		ID:           model.ID,
		OriginalPath: model.OriginalPath,
		Type:         Type(model.MediaType),
		Status:       Status{Phase: Phase(model.Status), Reason: model.StatusReason},
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.ProxyPath.Valid {
		record.ProxyPath = &model.ProxyPath.String
	}
	if model.DurationMs.Valid {
		record.Metadata.DurationMs = &model.DurationMs.Int64
	}
	if model.Width.Valid {
		w := int(model.Width.Int32)
		record.Metadata.Width = &w
	}
	if model.Height.Valid {
		h := int(model.Height.Int32)
		record.Metadata.Height = &h
	}
	if model.FrameRate.Valid {
		record.Metadata.FrameRate = &model.FrameRate.Float64
	}
	if model.Codec.Valid {
		record.Metadata.Codec = &model.Codec.String
	}

	return record
}
