package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/hbomb79/Reel/internal/api"
	"github.com/hbomb79/Reel/internal/database"
	"github.com/hbomb79/Reel/internal/event"
	"github.com/hbomb79/Reel/internal/ffmpeg"
	"github.com/hbomb79/Reel/internal/importer"
	"github.com/hbomb79/Reel/internal/ingest"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/hbomb79/Reel/pkg/logger"
)

var log = logger.Get("Core")

type (
	RunnableService interface {
		Run(context.Context) error
	}

	// RestoreSource provides the state persisted by a previous run of Reel.
	RestoreSource interface {
		LoadRestoreState() (*media.ProxySettings, []*media.Record, error)
	}
)

// reelImpl represents the top-level object for the server, and is responsible
// for initialising the services, stores, event handling, et cetera...
type reelImpl struct {
	config   ReelConfig
	eventBus event.EventCoordinator
	db       database.Manager
	store    *dataOrchestrator

	defaultSettings media.ProxySettings
	registry        *importer.Registry
	ingestService   RunnableService
	restGateway     *api.RestGateway
	activityService *activityService
}

func New(config ReelConfig) (*reelImpl, error) {
	log.Emit(logger.DEBUG, "Bootstrapping Reel services using config: %#v\n", config)
	reel := &reelImpl{
		config:   config,
		eventBus: event.New(),
		db:       database.New(),
	}

	defaults, err := config.ProxyDefaults.ProxySettings()
	if err != nil {
		return nil, fmt.Errorf("default proxy settings invalid: %w", err)
	}
	reel.defaultSettings = defaults

	gateway, err := ffmpeg.New(config.Ffmpeg)
	if err != nil {
		return nil, fmt.Errorf("failed to construct transcoder gateway: %w", err)
	}

	var store importer.DataStore
	if config.Database.Enabled {
		reel.store = newDataOrchestrator(reel.db)
		store = reel.store
	}

	if registry, err := importer.New(config.Importer, gateway, store, reel.eventBus); err == nil {
		reel.registry = registry
	} else {
		return nil, fmt.Errorf("failed to construct import registry: %w", err)
	}

	if config.Ingest.Enabled {
		if serv, err := ingest.New(config.Ingest, reel.registry); err == nil {
			reel.ingestService = serv
		} else {
			return nil, fmt.Errorf("failed to construct ingestion service: %w", err)
		}
	}

	reel.restGateway = api.NewRestGateway(&config.RestConfig, reel.registry)
	reel.activityService = newActivityService(reel.restGateway, reel.eventBus)

	return reel, nil
}

// Run will start all of Reel by bringing up all required services and connections:
// - Database connection (if enabled)
// - Restoring persisted media and settings
// - Service instances
//
// This function will not return until Reel is stopped.
// To stop Reel, the provided context must be cancelled. Errors from which Reel cannot recover
// will also cause Reel to stop.
func (reel *reelImpl) Run(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var crashErr error
	crashOnce := sync.Once{}
	crashHandler := func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		crashOnce.Do(func() { crashErr = fmt.Errorf("service %s crashed: %w", label, err) })
		cancel()
	}

	if reel.store != nil {
		log.Emit(logger.NEW, "Connecting to database...\n")
		if err := reel.db.Connect(ctx, reel.config.Database); err != nil {
			return err
		}
		defer reel.db.Close()

		if err := reel.restore(reel.store); err != nil {
			return err
		}
	} else {
		log.Emit(logger.INFO, "Persistence disabled, media will not survive a restart\n")
		reel.registry.Restore(&reel.defaultSettings, nil)
	}

	wg := &sync.WaitGroup{}
	reel.spawnAsyncService(ctx, wg, reel.registry, "import-registry", crashHandler)
	reel.spawnAsyncService(ctx, wg, reel.activityService, "activity-service", crashHandler)
	reel.spawnAsyncService(ctx, wg, reel.restGateway, "rest-gateway", crashHandler)
	if reel.ingestService != nil {
		reel.spawnAsyncService(ctx, wg, reel.ingestService, "ingest-service", crashHandler)
	}
	log.Emit(logger.SUCCESS, "Reel services spawned!\n")

	wg.Wait()
	return crashErr
}

// restore loads the persisted state in to the registry. If no settings have been
// persisted, the configured defaults are used.
func (reel *reelImpl) restore(source RestoreSource) error {
	settings, records, err := source.LoadRestoreState()
	if err != nil {
		return fmt.Errorf("failed to load persisted state: %w", err)
	}

	if settings == nil {
		settings = &reel.defaultSettings
	}

	reel.registry.Restore(settings, records)
	return nil
}

// spawnAsyncService will run the provided function/service as it's own
// go-routine, ensuring that the Reel service waitgroup is updated correctly
func (reel *reelImpl) spawnAsyncService(ctx context.Context, wg *sync.WaitGroup, service RunnableService, serviceLabel string, crashHandler func(string, error)) {
	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(wg *sync.WaitGroup, label string, crash func(string, error)) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		if err := service.Run(ctx); err != nil {
			crash(label, err)
		}
	}(wg, serviceLabel, crashHandler)
}
