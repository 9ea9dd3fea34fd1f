package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"domainwatch/internal/events"
)

const writeTimeout = 5 * time.Second

// Hub pushes check events to connected dashboard clients. Clients are
// read-only listeners; anything they send is discarded.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates a hub subscribed to every event on the bus.
func NewHub(bus *events.Bus) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
	bus.Subscribe(h.broadcast)
	return h
}

// HandleConnection upgrades the request and keeps the connection
// registered until the client goes away.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	count := len(h.conns)
	h.mu.Unlock()
	log.Printf("[WS] Client connected (%d active)", count)

	go h.readLoop(conn)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// readLoop drains incoming frames so pings are answered and a closed
// connection is detected promptly.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// broadcast fans one event out to every connected client. A client that
// cannot be written to is dropped.
func (h *Hub) broadcast(e events.Event) {
	frame, err := json.Marshal(e)
	if err != nil {
		log.Printf("[WS] Encode event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			delete(h.conns, conn)
			conn.Close()
		}
	}
}
