// Package event is an in-process bus which decouples the import registry from the
// services that react to media changes.
package event

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/hbomb79/Reel/pkg/logger"
)

var log = logger.Get("EventBus")

// Events emitted by various parts of Reel that should be handled by another, silo'd part
// of Reel's architecture (e.g. the activity service forwarding media changes to
// connected websocket clients).
type (
	Event         string
	Payload       any
	HandlerMethod func(Event, Payload)

	HandlerChannel chan HandlerEvent
	HandlerEvent   struct {
		Event   Event
		Payload Payload
	}

	EventDispatcher interface {
		Dispatch(Event, Payload)
	}

	EventHandler interface {
		RegisterAsyncHandlerFunction(Event, HandlerMethod)
		RegisterHandlerFunction(Event, HandlerMethod)
		RegisterHandlerChannel(HandlerChannel, ...Event)
		DeregisterHandlerChannel(HandlerChannel)
	}

	EventCoordinator interface {
		EventDispatcher
		EventHandler
	}

	eventHandler struct {
		*sync.RWMutex
		fnHandlers   map[Event][]handlerMethod
		chanHandlers map[Event][]HandlerChannel
	}

	handlerMethod struct {
		handle HandlerMethod
		async  bool
	}
)

const (
	// MEDIA_UPDATE is dispatched whenever a media record is created or changes
	// status. The payload is the ID of the media.
	MEDIA_UPDATE Event = "media:update"

	// MEDIA_REMOVE is dispatched after a media record has been removed. The
	// payload is the ID of the media.
	MEDIA_REMOVE Event = "media:remove"

	// PROXY_SETTINGS_UPDATE is dispatched when the effective proxy settings
	// change. It carries no payload.
	PROXY_SETTINGS_UPDATE Event = "proxy_settings:update"
)

func New() EventCoordinator {
	return &eventHandler{
		RWMutex:      &sync.RWMutex{},
		fnHandlers:   make(map[Event][]handlerMethod),
		chanHandlers: make(map[Event][]HandlerChannel),
	}
}

// RegisterHandlerChannel delivers a HandlerEvent on the channel for every Dispatch of
// the events given. A channel may be registered more than once.
//
// If the channel is BLOCKED when the event bus attempts to send the message on the handler channel,
// then the thread dispatching the event will also be BLOCKED. It is recommended to buffer the handler channels
// appropriately to avoid dispatcher-side blocking.
func (handler *eventHandler) RegisterHandlerChannel(handle HandlerChannel, events ...Event) {
	handler.Lock()
	defer handler.Unlock()

	for _, event := range events {
		handler.chanHandlers[event] = append(handler.chanHandlers[event], handle)
	}
}

// DeregisterHandlerChannel removes the channel provided from every event it
// was registered for. Dispatches already in progress may still deliver to it.
func (handler *eventHandler) DeregisterHandlerChannel(handle HandlerChannel) {
	handler.Lock()
	defer handler.Unlock()

	for event, handles := range handler.chanHandlers {
		kept := make([]HandlerChannel, 0, len(handles))
		for _, h := range handles {
			if h != handle {
				kept = append(kept, h)
			}
		}
		handler.chanHandlers[event] = kept
	}
}

// RegisterHandlerFunction takes an event type and a handler method which will be stored
// and called with the payload for the event whenever it is dispatched.
// The handle provided should be guaranteed to return quickly, else other threads calling
// Dispatch on this event bus will be blocked.
func (handler *eventHandler) RegisterHandlerFunction(event Event, handle HandlerMethod) {
	handler.registerHandlerMethod(event, handlerMethod{handle, false})
}

// RegisterAsyncHandlerFunction accepts an Event and a HandlerMethod which will be stored and
// called inside of a goroutine when the event is handled.
func (handler *eventHandler) RegisterAsyncHandlerFunction(event Event, handle HandlerMethod) {
	handler.registerHandlerMethod(event, handlerMethod{handle, true})
}

func (handler *eventHandler) registerHandlerMethod(event Event, handle handlerMethod) {
	handler.Lock()
	defer handler.Unlock()

	handler.fnHandlers[event] = append(handler.fnHandlers[event], handle)
}

// Dispatch takes an event type and a payload and dispatches the payload to the handlers
// registered for the event type provided.
// Note that this method WILL block if a synchronous handler function is blocking, or if channel
// handlers are blocked.
func (handler *eventHandler) Dispatch(event Event, payload Payload) {
	if err := validatePayload(event, payload); err != nil {
		log.Emit(logger.ERROR, "Dispatch for event %v FAILED validation: %v\n", event, err)
		return
	}

	handler.RLock()
	fnHandles := handler.fnHandlers[event]
	chanHandles := handler.chanHandlers[event]
	handler.RUnlock()

	for _, handle := range fnHandles {
		if handle.async {
			go handle.handle(event, payload)
		} else {
			handle.handle(event, payload)
		}
	}

	ev := HandlerEvent{event, payload}
	for _, handle := range chanHandles {
		handle <- ev
	}
}

// validatePayload checks the payload type matches what handlers of the event expect.
// Events failing validation are not delivered.
func validatePayload(event Event, payload Payload) error {
	var payloadTypeName string
	if t := reflect.TypeOf(payload); t != nil {
		payloadTypeName = t.Name()
	} else {
		payloadTypeName = "Nil"
	}

	switch event {
	case MEDIA_UPDATE, MEDIA_REMOVE:
		if _, ok := payload.(uuid.UUID); !ok {
			return fmt.Errorf("illegal payload (type %s) for %s event. Expected uuid.UUID payload", payloadTypeName, event)
		}

		return nil
	case PROXY_SETTINGS_UPDATE:
		if payload != nil {
			return fmt.Errorf("illegal payload (type %s) for %s event. Expected no payload", payloadTypeName, event)
		}

		return nil
	}

	return errors.New("event type not recognized for validation")
}
