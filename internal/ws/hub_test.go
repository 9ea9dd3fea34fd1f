package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"domainwatch/internal/events"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsEvents(t *testing.T) {
	bus := events.NewBus()
	hub := NewHub(bus)
	conn := dialTestHub(t, hub)

	bus.Publish(events.Event{
		Type:     events.DomainExpired,
		Severity: events.SeverityCritical,
		Hostname: "example.com",
		Message:  "example.com is in the expired tier",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var e events.Event
	if err := json.Unmarshal(frame, &e); err != nil {
		t.Fatalf("frame is not an event: %v", err)
	}
	if e.Type != events.DomainExpired || e.Hostname != "example.com" {
		t.Errorf("received %+v", e)
	}
	if e.Timestamp.IsZero() {
		t.Error("broadcast event should carry a timestamp")
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	bus := events.NewBus()
	hub := NewHub(bus)
	conn := dialTestHub(t, hub)

	waitForClients(t, hub, 1)
	conn.Close()

	// The read loop notices the close and deregisters the client.
	waitForClients(t, hub, 0)

	// Broadcasting to an empty hub is a no-op, not a panic.
	bus.Publish(events.Event{Type: events.RunCompleted, Message: "done"})
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
