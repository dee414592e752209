package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hbomb79/Reel/pkg/logger"
)

var log = logger.Get("WebSocket")

// SocketHub owns every activity stream connection. Clients are only
// ever mutated from the goroutine running Start.
type SocketHub struct {
	upgrader           *websocket.Upgrader
	clients            []*socketClient
	registerCh         chan *socketClient
	deregisterCh       chan *socketClient
	sendCh             chan *SocketMessage
	connectionCallback func() map[string]interface{}

	startOnce sync.Once
	started   chan struct{}
	done      chan struct{}
}

// New returns a hub which is idle until Start is called.
func New() *SocketHub {
	return &SocketHub{
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		registerCh:   make(chan *socketClient),
		deregisterCh: make(chan *socketClient),
		sendCh:       make(chan *SocketMessage, 64),
		started:      make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// WithConnectionCallback registers a function whose result is merged in to the
// welcome message sent to each new client, giving it a snapshot of current state.
func (hub *SocketHub) WithConnectionCallback(callback func() map[string]interface{}) {
	hub.connectionCallback = callback
}

// Start begins the socket hub by listening on all related channels
// for incoming clients and messages. It returns once the context
// provided is cancelled, closing all connected clients.
func (hub *SocketHub) Start(ctx context.Context) {
	if ctx.Err() != nil {
		log.Emit(logger.STOP, "Context already cancelled, socket hub will not start\n")
		return
	}

	alreadyStarted := true
	hub.startOnce.Do(func() {
		alreadyStarted = false
		close(hub.started)
	})
	if alreadyStarted {
		log.Emit(logger.WARNING, "Socket hub already started, ignoring\n")
		return
	}

	log.Emit(logger.INFO, "Socket hub listening\n")
	defer hub.close()
	for {
		select {
		case message := <-hub.sendCh:
			if message.Target != nil {
				if _, client := hub.findClient(*message.Target); client != nil {
					if err := client.SendMessage(message); err != nil {
						log.Emit(logger.ERROR, "Delivery to client {%v} failed: %v\n", *message.Target, err)
					}
				} else {
					log.Emit(logger.WARNING, "No client {%v} to deliver %s to\n", *message.Target, message.Title)
				}

				continue
			}

			hub.broadcastMessage(message)
		case client := <-hub.registerCh:
			if idx, _ := hub.findClient(client.id); idx > -1 {
				log.Emit(logger.ERROR, "Duplicate client id {%v}, rejecting connection\n", client.id)
				client.Close()
				continue
			}

			hub.clients = append(hub.clients, client)
			log.Emit(logger.NEW, "Client {%v} connected\n", client.id)
		case client := <-hub.deregisterCh:
			if idx, _ := hub.findClient(client.id); idx != -1 {
				hub.clients = append(hub.clients[:idx], hub.clients[idx+1:]...)
				log.Emit(logger.REMOVE, "Client {%v} disconnected\n", client.id)
				continue
			}

			log.Emit(logger.WARNING, "Disconnect for unknown client {%v}\n", client.id)
		case <-ctx.Done():
			log.Emit(logger.REMOVE, "Socket hub shutting down\n")
			return
		}
	}
}

// Send queues the message for delivery, to every client or only to message.Target
// if set. Messages sent while the hub is not running are dropped.
func (hub *SocketHub) Send(message *SocketMessage) {
	if !hub.isRunning() {
		log.Emit(logger.VERBOSE, "Socket hub is offline, dropping message %s\n", message.Title)
		return
	}

	select {
	case hub.sendCh <- message:
	case <-hub.done:
	}
}

// UpgradeToSocket upgrades a given HTTP request to a websocket and adds the new
// client to the hub. Blocks until the client disconnects.
func (hub *SocketHub) UpgradeToSocket(w http.ResponseWriter, r *http.Request) {
	if !hub.isRunning() {
		log.Emit(logger.ERROR, "Rejecting activity stream connection, socket hub offline\n")
		http.Error(w, "activity stream unavailable", http.StatusServiceUnavailable)
		return
	}

	// Allocate the id before upgrading; an upgraded connection cannot be answered with a status code
	id, err := uuid.NewRandom()
	if err != nil {
		log.Emit(logger.ERROR, "Could not allocate client id: %v\n", err)
		http.Error(w, "failed to allocate client id", http.StatusInternalServerError)
		return
	}

	sock, err := hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Emit(logger.ERROR, "Websocket upgrade failed: %v\n", err)
		return
	}

	client := &socketClient{id: id, socket: sock}
	select {
	case hub.registerCh <- client:
	case <-hub.done:
		client.Close()
		return
	}

	body := make(map[string]interface{})
	if hub.connectionCallback != nil {
		for k, v := range hub.connectionCallback() {
			body[k] = v
		}
	}
	body["client"] = id

	hub.Send(&SocketMessage{
		Title:  "CONNECTION_ESTABLISHED",
		Body:   body,
		Target: &id,
		Type:   Welcome,
	})

	// Read only returns once the client has gone away
	defer func() {
		select {
		case hub.deregisterCh <- client:
		case <-hub.done:
		}
		client.Close()
	}()

	if err := client.Read(); err != nil {
		log.Emit(logger.DEBUG, "Client {%v} closed: %v\n", client.id, err)
	}
}

func (hub *SocketHub) isRunning() bool {
	select {
	case <-hub.done:
		return false
	case <-hub.started:
		return true
	default:
		return false
	}
}

// close marks the hub as done and drops every client
func (hub *SocketHub) close() {
	close(hub.done)
	for _, client := range hub.clients {
		client.Close()
	}

	hub.clients = nil
	log.Emit(logger.STOP, "Socket hub closed\n")
}

// findClient returns the index and client for the id given, or (-1, nil).
func (hub *SocketHub) findClient(id uuid.UUID) (int, *socketClient) {
	for idx, client := range hub.clients {
		if client.id == id {
			return idx, client
		}
	}

	return -1, nil
}

// broadcastMessage writes to every client. Failed clients are closed, which
// ends their read loop and deregisters them.
func (hub *SocketHub) broadcastMessage(message *SocketMessage) {
	for _, client := range hub.clients {
		if err := client.SendMessage(message); err != nil {
			log.Emit(logger.WARNING, "Failed to send %s to client {%v}, closing: %v\n", message.Title, client.id, err)
			client.Close()
		}
	}
}
