// Package logic contains the pure run-tracking state of the autosplitter.
// This package has NO I/O (no sockets, shared memory, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"time"

	"github.com/sweeney/galerians-autosplitter/internal/game"
	"github.com/sweeney/galerians-autosplitter/internal/route"
)

// RunState is where the current run is as far as splitting is concerned.
type RunState string

const (
	RunNotStarted RunState = "NOT_STARTED"
	// RunIntro is the untracked opening of a run, before the first real
	// room has loaded.
	RunIntro    RunState = "INTRO"
	RunActive   RunState = "ACTIVE"
	RunFinished RunState = "FINISHED"
)

// IsStarted reports whether a run has begun, including a finished one.
func (s RunState) IsStarted() bool {
	return s != RunNotStarted
}

// IsActive reports whether a run is in progress.
func (s RunState) IsActive() bool {
	return s == RunIntro || s == RunActive
}

// ConnectionState is which dependency, if any, is still being waited for.
// The timer is always connected before the game source.
type ConnectionState string

const (
	ConnTimerPending  ConnectionState = "TIMER_PENDING"
	ConnSourcePending ConnectionState = "SOURCE_PENDING"
	ConnConnected     ConnectionState = "CONNECTED"
)

// Advance returns the state after the pending dependency connects.
func (s ConnectionState) Advance() ConnectionState {
	if s == ConnTimerPending {
		return ConnSourcePending
	}
	return ConnConnected
}

// EventType names something the autosplitter did or observed.
type EventType string

const (
	EventSplit       EventType = "SPLIT"
	EventReset       EventType = "RESET"
	EventRunStarted  EventType = "RUN_STARTED"
	EventRunFinished EventType = "RUN_FINISHED"
	// EventRunSynced is a run state change taken from the timer rather than
	// observed in game.
	EventRunSynced    EventType = "RUN_SYNCED"
	EventConnected    EventType = "CONNECTED"
	EventTimerLost    EventType = "TIMER_LOST"
	EventSourceLost   EventType = "SOURCE_LOST"
	EventSplitTypeSet EventType = "SPLIT_TYPE"
)

// Event is a record of one autosplitter action, published to observers.
type Event struct {
	Timestamp  time.Time
	Type       EventType
	RunID      string
	Run        RunState
	Connection ConnectionState
	SplitType  route.SplitType
	Location   game.Location
	SplitIndex int
}

// EventCounts tracks the number of each run event since startup.
type EventCounts struct {
	Splits       int
	Resets       int
	RunsStarted  int
	RunsFinished int
}

// Add counts e if it is a run event.
func (c *EventCounts) Add(e Event) {
	switch e.Type {
	case EventSplit:
		c.Splits++
	case EventReset:
		c.Resets++
	case EventRunStarted:
		c.RunsStarted++
	case EventRunFinished:
		c.RunsFinished++
	}
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
