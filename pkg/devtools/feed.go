package devtools

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is pushed to inspector clients whenever a registered store changes.
type Event struct {
	// Store identifies the store that changed ("auth" or "sidebar").
	Store string `json:"store"`

	// State is the redacted snapshot of the store after the change.
	State any `json:"state"`

	// Time is when the change was observed.
	Time time.Time `json:"time"`
}

// feed manages WebSocket connections for the live change feed.
type feed struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

func newFeed() *feed {
	return &feed{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // inspector binds to localhost
			},
		},
	}
}

// handleWebSocket upgrades the request and holds the connection open
// until the client disconnects.
func (f *feed) handleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := f.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}

	f.mu.Lock()
	delete(f.clients, conn)
	f.mu.Unlock()
	conn.Close()
}

// broadcast sends an event to all connected clients.
func (f *feed) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	f.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(f.clients))
	for client := range f.clients {
		clients = append(clients, client)
	}
	f.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			f.mu.Lock()
			delete(f.clients, client)
			f.mu.Unlock()
			client.Close()
		}
	}
}

// clientCount returns the number of connected clients.
func (f *feed) clientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// close disconnects all clients.
func (f *feed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for client := range f.clients {
		client.Close()
		delete(f.clients, client)
	}
}
