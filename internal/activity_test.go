package internal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/event"
	"github.com/stretchr/testify/assert"
)

type broadcastCall struct {
	kind string
	id   uuid.UUID
}

// recordingBroadcaster captures every broadcast made, in order. Broadcasts
// for the sentinel ID are only used to detect readiness and are not recorded.
type recordingBroadcaster struct {
	*sync.Mutex
	sentinel uuid.UUID
	ready bool
	calls []broadcastCall
}

func (b *recordingBroadcaster) record(kind string, id uuid.UUID) error {
	b.Lock()
	defer b.Unlock()
	if id == b.sentinel {
		b.ready = true
		return nil
	}

	b.calls = append(b.calls, broadcastCall{kind, id})
	return nil
}

func (b *recordingBroadcaster) BroadcastMediaUpdate(id uuid.UUID) error { return b.record("update", id) }
func (b *recordingBroadcaster) BroadcastMediaRemove(id uuid.UUID) error { return b.record("remove", id) }
func (b *recordingBroadcaster) BroadcastProxySettingsUpdate() error {
	return b.record("settings", uuid.Nil)
}

func (b *recordingBroadcaster) Calls() []broadcastCall {
	b.Lock()
	defer b.Unlock()
	return append([]broadcastCall(nil), b.calls...)
}

func startActivity(t *testing.T) (event.EventCoordinator, *recordingBroadcaster) {
	bus := event.New()
	recorder := &recordingBroadcaster{Mutex: &sync.Mutex{}, sentinel: uuid.New()}
	service := newActivityService(recorder, bus)
	service.debounceTime = 20 * time.Millisecond
	service.maxTime = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.Nil(t, service.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})

	// Wait for the service to register with the bus
	assert.Eventually(t, func() bool {
		bus.Dispatch(event.MEDIA_REMOVE, recorder.sentinel)
		recorder.Lock()
		defer recorder.Unlock()
		return recorder.ready
	}, time.Second, 5*time.Millisecond)

	return bus, recorder
}

func TestActivity_CoalescesMediaUpdates(t *testing.T) {
	bus, recorder := startActivity(t)

	id := uuid.New()
	for i := 0; i < 5; i++ {
		bus.Dispatch(event.MEDIA_UPDATE, id)
	}

	assert.Eventually(t, func() bool { return len(recorder.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []broadcastCall{{"update", id}}, recorder.Calls())
}

func TestActivity_RemovalCancelsPendingUpdate(t *testing.T) {
	bus, recorder := startActivity(t)

	id := uuid.New()
	bus.Dispatch(event.MEDIA_UPDATE, id)
	bus.Dispatch(event.MEDIA_REMOVE, id)

	assert.Eventually(t, func() bool { return len(recorder.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []broadcastCall{{"remove", id}}, recorder.Calls())
}

func TestActivity_ForwardsSettingsUpdates(t *testing.T) {
	bus, recorder := startActivity(t)

	bus.Dispatch(event.PROXY_SETTINGS_UPDATE, nil)
	assert.Eventually(t, func() bool {
		calls := recorder.Calls()
		return len(calls) == 1 && calls[0].kind == "settings"
	}, time.Second, 5*time.Millisecond)
}
