package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/floostack/transcoder"
	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/event"
	"github.com/hbomb79/Reel/internal/ffmpeg"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/hbomb79/Reel/pkg/logger"
	"golang.org/x/sync/semaphore"
)

var (
	log = logger.Get("Importer")

	ErrRegistrySaturated = errors.New("import registry is saturated")
	ErrRegistryClosed    = errors.New("import registry is closed")
)

type (
	// Gateway is the external media tool used to probe and transcode media.
	Gateway interface {
		Probe(ctx context.Context, path string) (*ffmpeg.Metadata, error)
		GenerateProxy(ctx context.Context, input string, output string, opts transcoder.Options) error
	}

	// DataStore persists changes to the registry so that they may be
	// restored when Reel is next started.
	DataStore interface {
		SaveMedia(record *media.Record) error
		DeleteMedia(id uuid.UUID) error
		SaveProxySettings(settings media.ProxySettings) error
	}

	// entry is an immutable snapshot of a record as committed to the registry. The
	// generation is assigned when the entry is first inserted, and must match for
	// any later commit from the same import to be accepted.
	entry struct {
		record     *media.Record
		generation uint64
	}

	// Registry is the authoritative, concurrency-safe store of media records.
	// Each import runs as an independent background pipeline (probe, then proxy
	// generation) which only takes the write lock for the instant it commits a
	// new snapshot of its record.
	Registry struct {
		*sync.RWMutex
		config   Config
		gateway  Gateway
		store    DataStore
		eventBus event.EventDispatcher

		entries    map[uuid.UUID]*entry
		settings   media.ProxySettings
		generation uint64
		closed     bool

		admission *semaphore.Weighted
		wg        sync.WaitGroup
		ctx       context.Context
		cancel    context.CancelFunc
	}
)

func New(config Config, gateway Gateway, store DataStore, eventBus event.EventDispatcher) (*Registry, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("importer config invalid: %w", err)
	}

	if err := os.MkdirAll(config.ProxyDirectory, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create proxy directory %s: %w", config.ProxyDirectory, err)
	}

	var admission *semaphore.Weighted
	if config.MaxConcurrentImports > 0 {
		admission = semaphore.NewWeighted(int64(config.MaxConcurrentImports))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		RWMutex:   &sync.RWMutex{},
		config:    config,
		gateway:   gateway,
		store:     store,
		eventBus:  eventBus,
		entries:   make(map[uuid.UUID]*entry),
		settings:  media.DefaultProxySettings(),
		admission: admission,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Run blocks until the context provided is cancelled, at which point the registry
// is closed to new imports and any in-flight import pipelines are interrupted. Run
// returns once every pipeline has committed its final state.
func (registry *Registry) Run(ctx context.Context) error {
	<-ctx.Done()

	registry.Lock()
	registry.closed = true
	registry.Unlock()

	log.Emit(logger.STOP, "Import registry closing, interrupting in-flight imports...\n")
	registry.cancel()
	registry.wg.Wait()

	log.Emit(logger.STOP, "Import registry closed\n")
	return nil
}

// Import creates a new media record for the path provided and starts the background
// pipeline which will probe the file and generate its proxy. The ID of the new record is
// returned immediately, without waiting for the pipeline. Failures of the pipeline itself
// are reported only via the status of the record.
//
// If the registry is bounded and saturated, Import either waits for a free slot (honouring
// the context provided) or fails with ErrRegistrySaturated, depending on the configured policy.
func (registry *Registry) Import(ctx context.Context, path string) (uuid.UUID, error) {
	if err := registry.acquire(ctx); err != nil {
		return uuid.Nil, err
	}

	record, err := media.NewRecord(path)
	if err != nil {
		registry.release()
		return uuid.Nil, fmt.Errorf("failed to import %s: %w", path, err)
	}

	registry.Lock()
	if registry.closed {
		registry.Unlock()
		registry.release()
		return uuid.Nil, ErrRegistryClosed
	}

	registry.generation++
	generation := registry.generation
	settings := registry.settings
	registry.entries[record.ID] = &entry{record: record.Clone(), generation: generation}
	registry.persist(record)
	registry.wg.Add(1)
	registry.Unlock()

	log.Emit(logger.NEW, "Importing %s as %s (proxy settings %s/%s/%d)\n", record.OriginalPath, record.ID, settings.Resolution, settings.Codec, settings.Quality)
	registry.eventBus.Dispatch(event.MEDIA_UPDATE, record.ID)

	go func() {
		defer registry.wg.Done()
		defer registry.release()
		registry.runPipeline(record, generation, settings)
	}()

	return record.ID, nil
}

// Get returns a copy of the most recently committed state of the media
// with the ID provided, or nil if no such media exists.
func (registry *Registry) Get(id uuid.UUID) *media.Record {
	registry.RLock()
	defer registry.RUnlock()

	if e, ok := registry.entries[id]; ok {
		return e.record.Clone()
	}

	return nil
}

// List returns a copy of every record currently in the registry, in no
// particular order.
func (registry *Registry) List() []*media.Record {
	registry.RLock()
	defer registry.RUnlock()

	records := make([]*media.Record, 0, len(registry.entries))
	for _, e := range registry.entries {
		records = append(records, e.record.Clone())
	}

	return records
}

// KnownPaths returns the set of original paths of all media in the registry.
func (registry *Registry) KnownPaths() map[string]struct{} {
	registry.RLock()
	defer registry.RUnlock()

	paths := make(map[string]struct{}, len(registry.entries))
	for _, e := range registry.entries {
		paths[e.record.OriginalPath] = struct{}{}
	}

	return paths
}

// Remove deletes the media with the ID provided from the registry, and then deletes
// its proxy from disk (if it has one). Removing media which does not exist is not
// an error.
//
// The registry entry is removed first and is NOT restored if the proxy cannot be
// deleted; in this case an error is returned and the orphaned proxy path is logged
// so it can be cleaned up manually. A proxy which no longer exists is not an error.
//
// If an import for the media is still in-flight, its pipeline continues but any
// further commits it attempts are discarded.
func (registry *Registry) Remove(id uuid.UUID) error {
	registry.Lock()
	e, ok := registry.entries[id]
	if !ok {
		registry.Unlock()
		return nil
	}

	delete(registry.entries, id)
	if registry.store != nil {
		if err := registry.store.DeleteMedia(id); err != nil {
			log.Emit(logger.WARNING, "Failed to delete persisted media %s: %v\n", id, err)
		}
	}
	registry.Unlock()

	log.Emit(logger.REMOVE, "Removed media %s\n", id)
	registry.eventBus.Dispatch(event.MEDIA_REMOVE, id)

	if proxy := e.record.ProxyPath; proxy != nil {
		if err := os.Remove(*proxy); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Emit(logger.ERROR, "Media %s removed but proxy file %s could not be deleted and has been orphaned: %v\n", id, *proxy, err)
			return fmt.Errorf("media %s removed but proxy file %s could not be deleted: %w", id, *proxy, err)
		}
	}

	return nil
}

// UpdateProxySettings validates and stores the settings provided, which will be used
// by all subsequent imports. Imports already in-flight are not affected.
func (registry *Registry) UpdateProxySettings(settings media.ProxySettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	registry.Lock()
	if registry.store != nil {
		if err := registry.store.SaveProxySettings(settings); err != nil {
			registry.Unlock()
			return fmt.Errorf("failed to persist proxy settings: %w", err)
		}
	}
	registry.settings = settings
	registry.Unlock()

	log.Emit(logger.INFO, "Proxy settings updated: %s/%s/%d\n", settings.Resolution, settings.Codec, settings.Quality)
	registry.eventBus.Dispatch(event.PROXY_SETTINGS_UPDATE, nil)
	return nil
}

// ProxySettings returns the settings which will be used by the next import.
func (registry *Registry) ProxySettings() media.ProxySettings {
	registry.RLock()
	defer registry.RUnlock()

	return registry.settings
}

// Restore loads previously persisted settings and records in to the registry. Records
// which were interrupted mid-import are failed (and any partial proxy output for them
// removed), as are Ready records whose proxy no
// longer exists on disk. Invalid records, or records with an ID already present in
// the registry, are skipped.
func (registry *Registry) Restore(settings *media.ProxySettings, records []*media.Record) {
	registry.Lock()
	defer registry.Unlock()

	if settings != nil {
		if err := settings.Validate(); err != nil {
			log.Emit(logger.WARNING, "Ignoring persisted proxy settings: %v\n", err)
		} else {
			registry.settings = *settings
		}
	}

	restored := 0
	for _, record := range records {
		if err := record.Validate(); err != nil {
			log.Emit(logger.WARNING, "Skipping restore of invalid media record: %v\n", err)
			continue
		}
		if _, exists := registry.entries[record.ID]; exists {
			continue
		}

		record = record.Clone()
		changed := false
		switch record.Status.Phase {
		case media.PhaseImporting, media.PhaseGeneratingProxy:
			_ = record.MarkFailed("import interrupted before completion")
			registry.removePartialProxies(record.ID)
			changed = true
		case media.PhaseReady:
			if _, err := os.Stat(*record.ProxyPath); err != nil {
				// A Ready record cannot transition, so the restored copy is
				// rebuilt as failed rather than resurrected without its proxy.
				record.ProxyPath = nil
				record.Status = media.Status{Phase: media.PhaseError, Reason: "proxy file missing"}
				changed = true
			}
		}

		registry.generation++
		registry.entries[record.ID] = &entry{record: record, generation: registry.generation}
		if changed {
			registry.persist(record)
		}

		restored++
	}

	log.Emit(logger.INFO, "Restored %d media records\n", restored)
}

// commit replaces the registry entry for the record with the record provided, provided
// the entry still exists and belongs to the same import (matching generation). Returns
// false if the commit was discarded because the media has since been removed.
func (registry *Registry) commit(record *media.Record, generation uint64) bool {
	registry.Lock()
	current, ok := registry.entries[record.ID]
	if !ok || current.generation != generation {
		registry.Unlock()
		log.Emit(logger.DEBUG, "Discarding commit of %s as media has been removed\n", record)
		return false
	}

	registry.entries[record.ID] = &entry{record: record, generation: generation}
	registry.persist(record)
	registry.Unlock()

	registry.eventBus.Dispatch(event.MEDIA_UPDATE, record.ID)
	return true
}

// persist writes the record through to the data store. It is called while the write
// lock is held, so that the persisted state is ordered identically to the registry
// (a late commit can never re-insert a record after its removal). Failure to persist
// is logged but does not fail the commit: the registry remains authoritative.
func (registry *Registry) persist(record *media.Record) {
	if registry.store == nil {
		return
	}

	if err := registry.store.SaveMedia(record); err != nil {
		log.Emit(logger.WARNING, "Failed to persist media %s: %v\n", record.ID, err)
	}
}

func (registry *Registry) acquire(ctx context.Context) error {
	if registry.admission == nil {
		return nil
	}

	if registry.config.SaturationPolicy == PolicyReject {
		if !registry.admission.TryAcquire(1) {
			return ErrRegistrySaturated
		}

		return nil
	}

	if err := registry.admission.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for import slot: %w", err)
	}

	return nil
}

func (registry *Registry) release() {
	if registry.admission != nil {
		registry.admission.Release(1)
	}
}
