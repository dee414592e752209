package media_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.Nil(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func Test_Store_Save(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	store := &media.Store{}

	record := newRecord(t)
	width, height := 1920, 1080
	assert.Nil(t, record.ApplyMetadata(media.Metadata{Width: &width, Height: &height}))
	assert.Nil(t, record.BeginProxy())
	assert.Nil(t, record.MarkReady("/proxies/clip.mp4"))

	mock.ExpectExec(`INSERT INTO media \(id,original_path,proxy_path,.*\) VALUES .* ON CONFLICT\(id\) DO UPDATE`).
		WithArgs(
			record.ID, record.OriginalPath, "/proxies/clip.mp4", "video", nil, int64(1920), int64(1080),
			nil, nil, "ready", "", sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.Nil(t, store.Save(db, record))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func Test_Store_GetAll(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	store := &media.Store{}

	readyID, failedID := uuid.New(), uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "original_path", "proxy_path", "media_type", "duration_ms", "width", "height",
		"frame_rate", "codec", "status", "status_reason", "created_at", "updated_at",
	}).
		AddRow(readyID.String(), "/media/a.mov", "/proxies/a.mp4", "video", 10000, 1920, 1080, 29.97, "h264", "ready", "", now, now).
		AddRow(failedID.String(), "/media/b.wav", nil, "audio", nil, nil, nil, nil, nil, "error", "probe failed", now, now)

	mock.ExpectQuery(`SELECT id, original_path, .* FROM media ORDER BY created_at`).WillReturnRows(rows)

	records, err := store.GetAll(db)
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
	if !assert.Len(t, records, 2) {
		return
	}

	ready := records[0]
	assert.Equal(t, readyID, ready.ID)
	assert.Equal(t, media.Video, ready.Type)
	assert.Equal(t, media.Status{Phase: media.PhaseReady}, ready.Status)
	assert.Equal(t, "/proxies/a.mp4", *ready.ProxyPath)
	assert.Equal(t, int64(10000), *ready.Metadata.DurationMs)
	assert.Equal(t, 1920, *ready.Metadata.Width)
	assert.Equal(t, "h264", *ready.Metadata.Codec)
	assert.Nil(t, ready.Validate())

	failed := records[1]
	assert.Equal(t, failedID, failed.ID)
	assert.Equal(t, media.Audio, failed.Type)
	assert.Equal(t, media.Status{Phase: media.PhaseError, Reason: "probe failed"}, failed.Status)
	assert.Nil(t, failed.ProxyPath)
	assert.Nil(t, failed.Metadata.Width)
	assert.Nil(t, failed.Validate())
}

func Test_Store_Delete(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	store := &media.Store{}

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM media WHERE id=\$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Nil(t, store.Delete(db, id))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func Test_Store_ProxySettings(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	store := &media.Store{}

	settings := media.ProxySettings{
		Resolution: media.Resolution{Kind: media.ResolutionCustom, Width: 1280, Height: 720},
		Codec:      "libx265",
		Quality:    28,
	}

	mock.ExpectExec(`INSERT INTO proxy_settings`).
		WithArgs("custom", 1280, 720, "libx265", uint32(28)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.Nil(t, store.SaveProxySettings(db, settings))

	mock.ExpectQuery(`SELECT resolution, resolution_width, resolution_height, codec, quality FROM proxy_settings`).
		WillReturnRows(sqlmock.NewRows([]string{"resolution", "resolution_width", "resolution_height", "codec", "quality"}).
			AddRow("custom", 1280, 720, "libx265", 28))

	loaded, err := store.GetProxySettings(db)
	assert.Nil(t, err)
	assert.Equal(t, settings, *loaded)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func Test_Store_ProxySettings_NoneSaved(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	store := &media.Store{}

	mock.ExpectQuery(`SELECT resolution`).
		WillReturnRows(sqlmock.NewRows([]string{"resolution", "resolution_width", "resolution_height", "codec", "quality"}))

	_, err := store.GetProxySettings(db)
	assert.ErrorIs(t, err, media.ErrNoProxySettings)
}
