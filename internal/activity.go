package internal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/event"
	"github.com/hbomb79/Reel/pkg/logger"
)

const (
	DEBOUNCE_DURATION  time.Duration = time.Millisecond * 250
	MAX_TIMER_DURATION time.Duration = time.Second
)

type (
	broadcaster interface {
		BroadcastMediaUpdate(uuid.UUID) error
		BroadcastMediaRemove(uuid.UUID) error
		BroadcastProxySettingsUpdate() error
	}

	// activityService forwards events from the event bus to the connected
	// websocket clients. Bursts of updates to the same media are coalesced,
	// however a removal is always sent immediately and cancels any update
	// still pending for that media.
	activityService struct {
		*sync.Mutex
		broadcaster
		eventBus       event.EventHandler
		debounceTimers map[uuid.UUID]*time.Timer
		maxTimers      map[uuid.UUID]*time.Timer
		debounceTime   time.Duration
		maxTime        time.Duration
	}
)

func newActivityService(broadcaster broadcaster, eventBus event.EventHandler) *activityService {
	return &activityService{
		Mutex:          &sync.Mutex{},
		broadcaster:    broadcaster,
		eventBus:       eventBus,
		debounceTimers: make(map[uuid.UUID]*time.Timer),
		maxTimers:      make(map[uuid.UUID]*time.Timer),
		debounceTime:   DEBOUNCE_DURATION,
		maxTime:        MAX_TIMER_DURATION,
	}
}

func (service *activityService) Run(ctx context.Context) error {
	messageChan := make(chan event.HandlerEvent, 100)
	service.eventBus.RegisterHandlerChannel(messageChan, event.MEDIA_UPDATE, event.MEDIA_REMOVE, event.PROXY_SETTINGS_UPDATE)
	defer service.eventBus.DeregisterHandlerChannel(messageChan)

	log.Emit(logger.NEW, "Activity service started\n")
	for {
		select {
		case ev := <-messageChan:
			if err := service.handleEvent(ev); err != nil {
				log.Emit(logger.ERROR, "Handling of event %v failed: %v\n", ev, err)
			}
		case <-ctx.Done():
			service.cancelAll()
			log.Emit(logger.STOP, "Activity service closed\n")
			return nil
		}
	}
}

func (service *activityService) handleEvent(ev event.HandlerEvent) error {
	switch ev.Event {
	case event.MEDIA_UPDATE:
		mediaID, ok := ev.Payload.(uuid.UUID)
		if !ok {
			return errors.New("illegal payload (expected UUID)")
		}

		service.scheduleMediaUpdate(mediaID)
	case event.MEDIA_REMOVE:
		mediaID, ok := ev.Payload.(uuid.UUID)
		if !ok {
			return errors.New("illegal payload (expected UUID)")
		}

		service.cancel(mediaID)
		return service.BroadcastMediaRemove(mediaID)
	case event.PROXY_SETTINGS_UPDATE:
		return service.BroadcastProxySettingsUpdate()
	default:
		return errors.New("unknown event type")
	}

	return nil
}

func (service *activityService) scheduleMediaUpdate(mediaID uuid.UUID) {
	service.Lock()
	defer service.Unlock()

	broadcaster := func() { service.broadcastMediaUpdate(mediaID) }

	// Cancel and re-set a debounce timer
	if t, ok := service.debounceTimers[mediaID]; ok {
		t.Stop()
	}
	service.debounceTimers[mediaID] = time.AfterFunc(service.debounceTime, broadcaster)

	// Set a max timer if not already set
	if _, ok := service.maxTimers[mediaID]; !ok {
		service.maxTimers[mediaID] = time.AfterFunc(service.maxTime, broadcaster)
	}
}

func (service *activityService) broadcastMediaUpdate(mediaID uuid.UUID) {
	service.Lock()
	_, debouncing := service.debounceTimers[mediaID]
	_, waiting := service.maxTimers[mediaID]
	if !debouncing && !waiting {
		// Already sent by the other timer, or cancelled by a removal
		service.Unlock()
		return
	}
	service.cancelLocked(mediaID)
	service.Unlock()

	if err := service.BroadcastMediaUpdate(mediaID); err != nil {
		log.Emit(logger.ERROR, "Failed to broadcast update for media %s: %v\n", mediaID, err)
	}
}

func (service *activityService) cancel(mediaID uuid.UUID) {
	service.Lock()
	defer service.Unlock()

	service.cancelLocked(mediaID)
}

func (service *activityService) cancelLocked(mediaID uuid.UUID) {
	if t, ok := service.debounceTimers[mediaID]; ok {
		t.Stop()
		delete(service.debounceTimers, mediaID)
	}

	if t, ok := service.maxTimers[mediaID]; ok {
		t.Stop()
		delete(service.maxTimers, mediaID)
	}
}

func (service *activityService) cancelAll() {
	service.Lock()
	defer service.Unlock()

	for id := range service.debounceTimers {
		service.cancelLocked(id)
	}
	for id := range service.maxTimers {
		service.cancelLocked(id)
	}
}
