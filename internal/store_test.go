package internal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/database"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockManager is a database.Manager backed by sqlmock rather than a
// real postgres connection.
type mockManager struct {
	db *sqlx.DB
}

func (m *mockManager) Connect(context.Context, database.DatabaseConfig) error { return nil }
func (m *mockManager) GetSqlxDB() *sqlx.DB                                      { return m.db }
func (m *mockManager) Close() error                                             { return nil }
func (m *mockManager) WrapTx(f func(*sqlx.Tx) error) error {
	if m.db == nil {
		return database.ErrNotConnected
	}

	return database.WrapTx(m.db, f)
}

var mediaColumnNames = []string{
	"id", "original_path", "proxy_path", "media_type", "duration_ms", "width", "height",
	"frame_rate", "codec", "status", "status_reason", "created_at", "updated_at",
}

func newMockOrchestrator(t *testing.T) (*dataOrchestrator, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })

	return newDataOrchestrator(&mockManager{db: sqlx.NewDb(db, "sqlmock")}), mock
}

func TestStore_NotConnected(t *testing.T) {
	orchestrator := newDataOrchestrator(&mockManager{})

	record, err := media.NewRecord("/media/clip.mov")
	require.Nil(t, err)

	assert.ErrorIs(t, orchestrator.SaveMedia(record), database.ErrNotConnected)
	assert.ErrorIs(t, orchestrator.DeleteMedia(record.ID), database.ErrNotConnected)
	assert.ErrorIs(t, orchestrator.SaveProxySettings(media.DefaultProxySettings()), database.ErrNotConnected)
	_, _, err = orchestrator.LoadRestoreState()
	assert.ErrorIs(t, err, database.ErrNotConnected)
}

func TestStore_SaveAndDelete(t *testing.T) {
	orchestrator, mock := newMockOrchestrator(t)

	record, err := media.NewRecord("/media/clip.mov")
	require.Nil(t, err)

	mock.ExpectExec(`INSERT INTO media`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM media WHERE id=\$1`).WithArgs(record.ID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO proxy_settings`).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.Nil(t, orchestrator.SaveMedia(record))
	assert.Nil(t, orchestrator.DeleteMedia(record.ID))
	assert.Nil(t, orchestrator.SaveProxySettings(media.DefaultProxySettings()))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestStore_LoadRestoreState(t *testing.T) {
	orchestrator, mock := newMockOrchestrator(t)

	id := uuid.New()
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT resolution, .* FROM proxy_settings WHERE id=1`).
		WillReturnRows(sqlmock.NewRows([]string{"resolution", "resolution_width", "resolution_height", "codec", "quality"}).
			AddRow("custom", 1280, 720, "h265", 28))
	mock.ExpectQuery(`SELECT id, original_path, .* FROM media ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows(mediaColumnNames).
			AddRow(id.String(), "/media/a.mov", nil, "video", nil, nil, nil, nil, nil, "importing", "", now, now))
	mock.ExpectCommit()

	settings, records, err := orchestrator.LoadRestoreState()
	require.Nil(t, err)
	if assert.NotNil(t, settings) {
		assert.Equal(t, media.Resolution{Kind: media.ResolutionCustom, Width: 1280, Height: 720}, settings.Resolution)
		assert.Equal(t, "h265", settings.Codec)
		assert.Equal(t, uint32(28), settings.Quality)
	}
	if assert.Len(t, records, 1) {
		assert.Equal(t, id, records[0].ID)
		assert.Equal(t, media.PhaseImporting, records[0].Status.Phase)
	}
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestStore_LoadRestoreStateWithoutSettings(t *testing.T) {
	orchestrator, mock := newMockOrchestrator(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM proxy_settings`).WillReturnRows(sqlmock.NewRows([]string{"resolution", "resolution_width", "resolution_height", "codec", "quality"}))
	mock.ExpectQuery(`FROM media`).WillReturnRows(sqlmock.NewRows(mediaColumnNames))
	mock.ExpectCommit()

	settings, records, err := orchestrator.LoadRestoreState()
	require.Nil(t, err)
	assert.Nil(t, settings)
	assert.Empty(t, records)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestStore_LoadRestoreStateRollsBackOnFailure(t *testing.T) {
	orchestrator, mock := newMockOrchestrator(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM proxy_settings`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, _, err := orchestrator.LoadRestoreState()
	assert.ErrorContains(t, err, "connection reset")
	assert.Nil(t, mock.ExpectationsWereMet())
}
