package websocket

import (
	"github.com/google/uuid"
)

type socketMessageType int

const (
	Update socketMessageType = iota
	Welcome
)

// SocketMessage is the envelope for every message pushed to a connected
// client. Messages with a Target are sent only to the client with the
// matching ID, otherwise they are broadcast to all clients.
type SocketMessage struct {
	Title  string                 `json:"title"`
	Body   map[string]interface{} `json:"arguments"`
	Type   socketMessageType      `json:"type"`
	Target *uuid.UUID             `json:"-"`
}
