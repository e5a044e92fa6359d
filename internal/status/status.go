// Package status provides a thread-safe status tracker for the autosplitter.
// It is read by the HTTP handlers, the system event publisher and the LED.
package status

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sweeney/galerians-autosplitter/internal/game"
	"github.com/sweeney/galerians-autosplitter/internal/logic"
	"github.com/sweeney/galerians-autosplitter/internal/route"
)

// Config contains daemon configuration for display.
type Config struct {
	LiveSplitAddr  string
	UpdateMs       int64
	HeartbeatMs    int64
	RequestedSplit route.SplitType
	Source         string
	Broker         string
	NATSURL        string
	HTTPAddr       string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Connection    logic.ConnectionState
	Run           logic.RunState
	RunID         string
	SplitType     route.SplitType
	Location      game.Location
	SplitIndex    int
	LastEvent     *logic.Event
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	NATSConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	clock clockwork.Clock

	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker started at clock.Now() with the given config.
func NewTracker(clock clockwork.Clock, cfg Config) *Tracker {
	return &Tracker{
		clock: clock,
		snap: Snapshot{
			Connection: logic.ConnTimerPending,
			Run:        logic.RunNotStarted,
			SplitIndex: -1,
			StartTime:  clock.Now(),
			Config:     cfg,
		},
	}
}

// Record folds an orchestrator event into the tracked state.
func (t *Tracker) Record(e logic.Event) {
	t.mu.Lock()
	t.snap.Connection = e.Connection
	t.snap.Run = e.Run
	t.snap.RunID = e.RunID
	t.snap.SplitType = e.SplitType
	t.snap.Location = e.Location
	t.snap.SplitIndex = e.SplitIndex
	t.snap.LastEvent = &e
	t.snap.Counts.Add(e)
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNATSConnected sets the NATS connection status.
func (t *Tracker) SetNATSConnected(connected bool) {
	t.mu.Lock()
	t.snap.NATSConnected = connected
	t.mu.Unlock()
}

// Counts returns the event counts so far.
func (t *Tracker) Counts() logic.EventCounts {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap.Counts
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.clock.Now()
	return s
}
