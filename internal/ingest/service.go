package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/importer"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/rjeczalik/notify"
)

var log = logger.Get("IngestServ")

type (
	ItemState int

	Importer interface {
		Import(ctx context.Context, path string) (uuid.UUID, error)
		KnownPaths() map[string]struct{}
	}

	// Item is a file detected in the watch folder.
	Item struct {
		Path    string
		State   ItemState
		MediaID uuid.UUID
		Trouble string
	}

	// ingestService is responsible for the automatic detection of files
	// placed in a watch folder on the host file system. The detected
	// files are:
	// - Checked against a blacklist to ensure they should be processed
	// - Held until their modtime suggests they're no longer being written to
	// - Submitted to the importer, exactly once per path
	ingestService struct {
		*sync.Mutex
		importer  Importer
		config    Config
		blacklist []*regexp.Regexp

		ctx              context.Context
		items            map[string]*Item
		importHoldTimers map[string]*time.Timer
	}
)

const (
	ImportHold ItemState = iota
	Submitted
	Troubled
)

func (s ItemState) String() string {
	switch s {
	case ImportHold:
		return "IMPORT_HOLD"
	case Submitted:
		return "SUBMITTED"
	case Troubled:
		return "TROUBLED"
	}

	return "UNKNOWN"
}

// New creates a new ingest service, using the provided config for
// subsequent calls to 'Run'.
//
// The configs 'IngestPath' is validated to be an existing directory.
// If the directory is missing it will be created, if the path
// provided points to an existing FILE, an error is returned.
func New(config Config, mediaImporter Importer) (*ingestService, error) {
	absPath, err := filepath.Abs(config.IngestPath)
	if err != nil {
		return nil, fmt.Errorf("ingestion path '%s' is invalid: %w", config.IngestPath, err)
	}
	config.IngestPath = absPath

	if info, err := os.Stat(config.IngestPath); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("ingestion path '%s' is not a directory", config.IngestPath)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(config.IngestPath, os.ModeDir|os.ModePerm); err != nil {
			return nil, fmt.Errorf("ingestion path '%s' could not be created: %w", config.IngestPath, err)
		}
	} else {
		return nil, fmt.Errorf("ingestion path '%s' could not be accessed: %w", config.IngestPath, err)
	}

	blacklist := make([]*regexp.Regexp, 0, len(config.Blacklist))
	for _, expr := range config.Blacklist {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("ingest blacklist expression %q is invalid: %w", expr, err)
		}

		blacklist = append(blacklist, re)
	}

	return &ingestService{
		Mutex:            &sync.Mutex{},
		importer:         mediaImporter,
		config:           config,
		blacklist:        blacklist,
		ctx:              context.Background(),
		items:            make(map[string]*Item),
		importHoldTimers: make(map[string]*time.Timer),
	}, nil
}

// Run is the main entry point of this service. It's responsible
// for listening to the OS file system and responding to change events,
// as well as regularly polling the file system irrespective of the
// watcher.
// To kill the service, the calling code should cancel the context
// provided.
func (service *ingestService) Run(ctx context.Context) error {
	service.Lock()
	service.ctx = ctx
	service.Unlock()

	fsNotifyChannel := make(chan notify.EventInfo, 16)
	watchPath := filepath.Join(service.config.IngestPath, "...")
	if err := notify.Watch(watchPath, fsNotifyChannel, notify.Create, notify.Write, notify.Rename); err != nil {
		log.Emit(logger.WARNING, "File system watcher for %s could not be started, relying on polling only: %v\n", service.config.IngestPath, err)
	}
	defer notify.Stop(fsNotifyChannel)

	forceSync := service.config.ForceSyncDuration()
	if forceSync <= 0 {
		forceSync = time.Hour
	}
	forceIngestTicker := time.NewTicker(forceSync)
	defer forceIngestTicker.Stop()

	defer service.clearAllImportHoldTimers()

	service.DiscoverNewFiles()
	for {
		select {
		case ev := <-fsNotifyChannel:
			log.Emit(logger.VERBOSE, "File system event %s on %s\n", ev.Event(), ev.Path())
			service.DiscoverNewFiles()
		case <-forceIngestTicker.C:
			service.DiscoverNewFiles()
		case <-ctx.Done():
			return nil
		}
	}
}

// DiscoverNewFiles will scan the host file system at the path
// configured and check for files that need to be imported (as
// in no media already exists for the path, and it has not already
// been detected by this service).
// Any paths found that match with any configured blacklists will
// be ignored.
func (service *ingestService) DiscoverNewFiles() {
	service.Lock()
	known := service.importer.KnownPaths()
	for path := range service.items {
		known[path] = struct{}{}
	}

	newItems, err := recursivelyWalkFileSystem(service.config.IngestPath, known, service.isIgnored)
	if err != nil {
		service.Unlock()
		log.Emit(logger.ERROR, "File system polling failed: %v\n", err)
		return
	}

	minModtimeAge := service.config.RequiredModTimeAgeDuration()
	ready := make([]string, 0, len(newItems))
	for itemPath, itemInfo := range newItems {
		service.items[itemPath] = &Item{Path: itemPath, State: ImportHold}

		timeDiff := time.Since(itemInfo.ModTime())
		if timeDiff >= minModtimeAge {
			ready = append(ready, itemPath)
		} else {
			log.Emit(logger.DEBUG, "Holding %s as it was modified too recently\n", itemPath)
			service.scheduleImportHoldTimer(itemPath, minModtimeAge-timeDiff)
		}
	}
	service.Unlock()

	for _, path := range ready {
		service.submit(path)
	}
}

// GetAllIngests returns a copy of every item detected by this service.
func (service *ingestService) GetAllIngests() []*Item {
	service.Lock()
	defer service.Unlock()

	items := make([]*Item, 0, len(service.items))
	for _, item := range service.items {
		cpy := *item
		items = append(items, &cpy)
	}

	return items
}

// submit hands the path to the importer. This is done without holding the
// mutex, as the importer may block while it waits for capacity. If the
// importer is saturated (and rejecting imports) the item is returned to hold
// and re-tried later.
func (service *ingestService) submit(path string) {
	service.Lock()
	ctx := service.ctx
	service.Unlock()

	id, err := service.importer.Import(ctx, path)

	service.Lock()
	defer service.Unlock()

	item, ok := service.items[path]
	if !ok {
		return
	}

	switch {
	case err == nil:
		log.Emit(logger.NEW, "Submitted %s for import as %s\n", path, id)
		item.State = Submitted
		item.MediaID = id
	case errors.Is(err, importer.ErrRegistrySaturated):
		log.Emit(logger.DEBUG, "Importer saturated, holding %s\n", path)
		service.scheduleImportHoldTimer(path, time.Second)
	case ctx.Err() != nil:
		// Shutting down: forget the item so it is rediscovered next time
		delete(service.items, path)
	default:
		log.Emit(logger.WARNING, "Failed to submit %s for import: %v\n", path, err)
		item.State = Troubled
		item.Trouble = err.Error()
	}
}

// evaluateItemHold accepts the path of an item that is on IMPORT_HOLD,
// and checks it's modtime to see if the item can be submitted.
// If the item no longer exists, the method is a NO-OP.
// If the item exists, but it's source file no longer exists, the item is removed
// from the services state.
// If the source still does not meet modtime requirements, then
// a new timer will be scheduled to re-evaluate the item hold.
func (service *ingestService) evaluateItemHold(path string) {
	service.Lock()
	item, ok := service.items[path]
	if !ok || item.State != ImportHold {
		service.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		// Item's source file has gone away!
		delete(service.items, path)
		service.Unlock()
		return
	}

	threshold := service.config.RequiredModTimeAgeDuration()
	if timeDiff := time.Since(info.ModTime()); timeDiff < threshold {
		service.scheduleImportHoldTimer(path, threshold-timeDiff)
		service.Unlock()
		return
	}

	delete(service.importHoldTimers, path)
	service.Unlock()

	service.submit(path)
}

// scheduleImportHoldTimer will call evaluateItemHold for the item provided
// after the delay duration specified has elapsed. Any existing import hold timer
// for the item specified will be *cancelled* before the new timer is created.
func (service *ingestService) scheduleImportHoldTimer(path string, delay time.Duration) {
	service.clearImportHoldTimer(path)
	service.importHoldTimers[path] = time.AfterFunc(delay, func() {
		service.evaluateItemHold(path)
	})
}

// clearImportHoldTimer cancels and deletes the import hold timer associated
// with the path specified.
func (service *ingestService) clearImportHoldTimer(path string) {
	if timer, ok := service.importHoldTimers[path]; ok {
		timer.Stop()
		delete(service.importHoldTimers, path)
	}
}

// clearAllImportHoldTimers cancels and deletes the import hold timers for
// all items.
func (service *ingestService) clearAllImportHoldTimers() {
	service.Lock()
	defer service.Unlock()

	for key, timer := range service.importHoldTimers {
		timer.Stop()
		delete(service.importHoldTimers, key)
	}
}

// isIgnored returns true if the file at the path provided is hidden or
// matches any of the configured blacklist expressions.
func (service *ingestService) isIgnored(path string) bool {
	name := filepath.Base(path)
	if len(name) > 0 && name[0] == '.' {
		return true
	}

	for _, re := range service.blacklist {
		if re.MatchString(name) {
			return true
		}
	}

	return false
}
