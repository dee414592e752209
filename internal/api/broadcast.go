package api

import (
	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/api/medias"
	"github.com/hbomb79/Reel/internal/api/settings"
	"github.com/hbomb79/Reel/internal/http/websocket"
)

const (
	TITLE_MEDIA_UPDATE          = "MEDIA_UPDATE"
	TITLE_MEDIA_REMOVE          = "MEDIA_REMOVE"
	TITLE_PROXY_SETTINGS_UPDATE = "PROXY_SETTINGS_UPDATE"
)

type (
	MediaUpdate struct {
		MediaID uuid.UUID        `json:"media_id"`
		Media   *medias.MediaDto `json:"media"`
	}

	MediaRemove struct {
		MediaID uuid.UUID `json:"media_id"`
	}

	broadcaster struct {
		socketHub *websocket.SocketHub
		service   Service
	}
)

func newBroadcaster(socketHub *websocket.SocketHub, service Service) *broadcaster {
	return &broadcaster{socketHub, service}
}

// BroadcastMediaUpdate pushes the current state of the media to all clients. If the
// media has been removed since the update occurred, nothing is sent as a removal
// broadcast will follow.
func (hub *broadcaster) BroadcastMediaUpdate(id uuid.UUID) error {
	record := hub.service.Get(id)
	if record == nil {
		return nil
	}

	hub.broadcast(TITLE_MEDIA_UPDATE, MediaUpdate{MediaID: id, Media: medias.NewDto(record)})
	return nil
}

func (hub *broadcaster) BroadcastMediaRemove(id uuid.UUID) error {
	hub.broadcast(TITLE_MEDIA_REMOVE, MediaRemove{MediaID: id})
	return nil
}

func (hub *broadcaster) BroadcastProxySettingsUpdate() error {
	hub.broadcast(TITLE_PROXY_SETTINGS_UPDATE, settings.NewDto(hub.service.ProxySettings()))
	return nil
}

// connectionPayload furnishes newly connected clients with the current
// media and proxy settings.
func (hub *broadcaster) connectionPayload() map[string]interface{} {
	records := hub.service.List()
	dtos := make([]*medias.MediaDto, len(records))
	for k, v := range records {
		dtos[k] = medias.NewDto(v)
	}

	return map[string]interface{}{
		"media":          dtos,
		"proxy_settings": settings.NewDto(hub.service.ProxySettings()),
	}
}

func (hub *broadcaster) broadcast(title string, update any) {
	hub.socketHub.Send(&websocket.SocketMessage{
		Title: title,
		Body:  map[string]interface{}{"arguments": update},
		Type:  websocket.Update,
	})
}
