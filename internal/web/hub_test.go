package web

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sweeney/galerians-autosplitter/internal/logic"
	"github.com/sweeney/galerians-autosplitter/internal/status"
)

func dialHub(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.Clients())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	ts, _ := newTestServer(t, hub)

	a := dialHub(t, ts)
	b := dialHub(t, ts)
	waitForClients(t, hub, 2)

	hub.Record(logic.Event{
		Timestamp:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Type:       logic.EventSplit,
		Run:        logic.RunActive,
		Connection: logic.ConnConnected,
		SplitIndex: 3,
	})

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg status.EventPayload
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("invalid JSON %q: %v", data, err)
		}
		if msg.Autosplitter.Event != "SPLIT" || msg.Autosplitter.SplitIndex != 3 {
			t.Errorf("unexpected message %+v", msg.Autosplitter)
		}
	}
}

func TestHubClientDisconnect(t *testing.T) {
	hub := NewHub()
	ts, _ := newTestServer(t, hub)

	conn := dialHub(t, ts)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Broadcasting with nobody listening is fine.
	hub.Record(logic.Event{Type: logic.EventReset})
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	c := &client{remote: "test", send: make(chan []byte, 1)}
	hub.clients[c] = struct{}{}

	hub.Record(logic.Event{Type: logic.EventSplit})
	if hub.Clients() != 1 {
		t.Fatal("client with room in its buffer should stay")
	}

	hub.Record(logic.Event{Type: logic.EventSplit})
	if hub.Clients() != 0 {
		t.Error("expected slow client removed")
	}
	if _, ok := <-c.send; !ok {
		t.Error("expected buffered message before close")
	}
	if _, ok := <-c.send; ok {
		t.Error("expected send channel closed")
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub()
	ts, _ := newTestServer(t, hub)

	conn := dialHub(t, ts)
	waitForClients(t, hub, 1)

	hub.Close()
	if hub.Clients() != 0 {
		t.Error("expected no clients after close")
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected connection closed by hub")
	}
}
