package internal

import (
	"errors"

	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/database"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/jmoiron/sqlx"
)

// dataOrchestrator binds the media store to the database connection, and
// is the persistence layer the import registry writes through to.
type dataOrchestrator struct {
	db         database.Manager
	MediaStore *media.Store
}

func newDataOrchestrator(db database.Manager) *dataOrchestrator {
	return &dataOrchestrator{db: db, MediaStore: &media.Store{}}
}

func (orchestrator *dataOrchestrator) SaveMedia(record *media.Record) error {
	db := orchestrator.db.GetSqlxDB()
	if db == nil {
		return database.ErrNotConnected
	}

	return orchestrator.MediaStore.Save(db, record)
}

func (orchestrator *dataOrchestrator) DeleteMedia(id uuid.UUID) error {
	db := orchestrator.db.GetSqlxDB()
	if db == nil {
		return database.ErrNotConnected
	}

	return orchestrator.MediaStore.Delete(db, id)
}

func (orchestrator *dataOrchestrator) SaveProxySettings(settings media.ProxySettings) error {
	db := orchestrator.db.GetSqlxDB()
	if db == nil {
		return database.ErrNotConnected
	}

	return orchestrator.MediaStore.SaveProxySettings(db, settings)
}

// LoadRestoreState fetches the persisted proxy settings and media records
// inside a single transaction. The settings returned are nil if none have
// been persisted.
func (orchestrator *dataOrchestrator) LoadRestoreState() (*media.ProxySettings, []*media.Record, error) {
	var settings *media.ProxySettings
	var records []*media.Record
	err := orchestrator.db.WrapTx(func(tx *sqlx.Tx) error {
		s, err := orchestrator.MediaStore.GetProxySettings(tx)
		if err != nil && !errors.Is(err, media.ErrNoProxySettings) {
			return err
		}
		settings = s

		records, err = orchestrator.MediaStore.GetAll(tx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return settings, records, nil
}
