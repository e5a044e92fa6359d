package natsbus

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sweeney/galerians-autosplitter/internal/logic"
	"github.com/sweeney/galerians-autosplitter/internal/route"
	"github.com/sweeney/galerians-autosplitter/internal/status"
)

type fakeConn struct {
	msgs      []*nats.Msg
	err       error
	connected bool
	closed    bool
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeConn) IsConnected() bool { return f.connected }
func (f *fakeConn) Close()            { f.closed = true }

var _ Conn = (*nats.Conn)(nil)

func TestSubject(t *testing.T) {
	p := New(&fakeConn{}, DefaultConfig().SubjectPrefix)
	tests := []struct {
		typ  logic.EventType
		want string
	}{
		{logic.EventSplit, "autosplitter.events.split"},
		{logic.EventRunStarted, "autosplitter.events.run_started"},
		{logic.EventTimerLost, "autosplitter.events.timer_lost"},
	}
	for _, tt := range tests {
		if got := p.Subject(tt.typ); got != tt.want {
			t.Errorf("Subject(%s): got %s, want %s", tt.typ, got, tt.want)
		}
	}
}

func TestPublish(t *testing.T) {
	conn := &fakeConn{}
	p := New(conn, "test")

	err := p.Publish(logic.Event{
		Timestamp:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:       logic.EventSplit,
		RunID:      "abc",
		Run:        logic.RunActive,
		SplitType:  route.Doors,
		SplitIndex: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conn.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(conn.msgs))
	}

	msg := conn.msgs[0]
	if msg.Subject != "test.split" {
		t.Errorf("subject: got %s", msg.Subject)
	}
	if got := msg.Header.Get("Event-Type"); got != "SPLIT" {
		t.Errorf("Event-Type header: got %q", got)
	}
	if got := msg.Header.Get("Run-ID"); got != "abc" {
		t.Errorf("Run-ID header: got %q", got)
	}

	var payload status.EventPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Autosplitter.SplitIndex != 3 || payload.Autosplitter.SplitType != "doors" {
		t.Errorf("unexpected payload: %+v", payload.Autosplitter)
	}
}

func TestPublishWithoutRunOmitsHeader(t *testing.T) {
	conn := &fakeConn{}
	New(conn, "test").Record(logic.Event{Type: logic.EventConnected})

	if len(conn.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(conn.msgs))
	}
	if _, ok := conn.msgs[0].Header["Run-ID"]; ok {
		t.Error("Run-ID header should be absent outside a run")
	}
}

func TestPublishError(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	p := New(conn, "test")

	if err := p.Publish(logic.Event{Type: logic.EventReset}); err == nil {
		t.Error("expected error")
	}
	// Record logs instead of failing.
	p.Record(logic.Event{Type: logic.EventReset})
}

func TestConnectedAndClose(t *testing.T) {
	conn := &fakeConn{connected: true}
	p := New(conn, "test")
	if !p.IsConnected() {
		t.Error("expected connected")
	}
	p.Close()
	if !conn.closed {
		t.Error("expected connection closed")
	}
}
