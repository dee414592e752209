package event_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/event"
	"github.com/stretchr/testify/assert"
)

func Test_Dispatch_DeliversToFunctionsAndChannels(t *testing.T) {
	t.Parallel()
	bus := event.New()

	var syncCalls, asyncCalls atomic.Int32
	bus.RegisterHandlerFunction(event.MEDIA_UPDATE, func(_ event.Event, _ event.Payload) { syncCalls.Add(1) })
	bus.RegisterAsyncHandlerFunction(event.MEDIA_UPDATE, func(_ event.Event, _ event.Payload) { asyncCalls.Add(1) })

	ch := make(event.HandlerChannel, 2)
	bus.RegisterHandlerChannel(ch, event.MEDIA_UPDATE, event.MEDIA_REMOVE)

	id := uuid.New()
	bus.Dispatch(event.MEDIA_UPDATE, id)
	bus.Dispatch(event.MEDIA_REMOVE, id)

	assert.Equal(t, int32(1), syncCalls.Load())
	assert.Eventually(t, func() bool { return asyncCalls.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, event.HandlerEvent{Event: event.MEDIA_UPDATE, Payload: id}, <-ch)
	assert.Equal(t, event.HandlerEvent{Event: event.MEDIA_REMOVE, Payload: id}, <-ch)
}

func Test_Dispatch_InvalidPayloadDropped(t *testing.T) {
	t.Parallel()
	bus := event.New()

	ch := make(event.HandlerChannel, 4)
	bus.RegisterHandlerChannel(ch, event.MEDIA_UPDATE, event.PROXY_SETTINGS_UPDATE)

	bus.Dispatch(event.MEDIA_UPDATE, "not-a-uuid")
	bus.Dispatch(event.PROXY_SETTINGS_UPDATE, uuid.New())
	bus.Dispatch("unknown:event", nil)
	assert.Len(t, ch, 0)

	bus.Dispatch(event.PROXY_SETTINGS_UPDATE, nil)
	assert.Len(t, ch, 1)
}

func Test_DeregisterHandlerChannel(t *testing.T) {
	t.Parallel()
	bus := event.New()

	removed := make(event.HandlerChannel, 4)
	kept := make(event.HandlerChannel, 4)
	bus.RegisterHandlerChannel(removed, event.MEDIA_UPDATE, event.MEDIA_REMOVE)
	bus.RegisterHandlerChannel(kept, event.MEDIA_UPDATE)

	bus.DeregisterHandlerChannel(removed)
	bus.Dispatch(event.MEDIA_UPDATE, uuid.New())
	bus.Dispatch(event.MEDIA_REMOVE, uuid.New())

	assert.Len(t, removed, 0)
	assert.Len(t, kept, 1)
}
