package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

type socketClient struct {
	id     uuid.UUID
	socket *websocket.Conn
	once   sync.Once
}

func (client *socketClient) SendMessage(message *SocketMessage) error {
	if err := client.socket.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}

	return client.socket.WriteJSON(message)
}

// Read starts a read-loop on the clients websocket connection. Reel does not
// accept any commands over the socket, so anything received is discarded; the
// loop exists so that a disconnect (or any read error) is noticed, at which
// point the error is returned. It is the responsibility of the caller
// to de-register the client once the connection closes.
func (client *socketClient) Read() error {
	for {
		if _, _, err := client.socket.NextReader(); err != nil {
			return err
		}
	}
}

// Close will close this clients socket. Safe to call more than once.
func (client *socketClient) Close() {
	client.once.Do(func() { client.socket.Close() })
}
