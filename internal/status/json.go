package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/galerians-autosplitter/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Connection    string         `json:"connection"`
	Run           RunJSON        `json:"run"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MQTT          BrokerStatus   `json:"mqtt"`
	NATS          BrokerStatus   `json:"nats"`
	Counts        CountsJSON     `json:"event_counts"`
	LastEvent     *LastEventJSON `json:"last_event,omitempty"`
	Config        ConfigJSON     `json:"config"`
}

// RunJSON describes the run in progress.
type RunJSON struct {
	State      string `json:"state"`
	ID         string `json:"id,omitempty"`
	SplitType  string `json:"split_type"`
	SplitIndex int    `json:"split_index"`
	Map        string `json:"map"`
	Room       uint16 `json:"room"`
}

// BrokerStatus reports a message broker connection.
type BrokerStatus struct {
	Connected bool   `json:"connected"`
	URL       string `json:"url,omitempty"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Splits       int `json:"splits"`
	Resets       int `json:"resets"`
	RunsStarted  int `json:"runs_started"`
	RunsFinished int `json:"runs_finished"`
}

// LastEventJSON is the most recent orchestrator event.
type LastEventJSON struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	LiveSplit   string `json:"livesplit"`
	UpdateMs    int64  `json:"update_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	SplitType   string `json:"split_type,omitempty"`
	Source      string `json:"source"`
	HTTPAddr    string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Connection: string(snap.Connection),
		Run: RunJSON{
			State:      string(snap.Run),
			ID:         snap.RunID,
			SplitType:  snap.SplitType.String(),
			SplitIndex: snap.SplitIndex,
			Map:        snap.Location.Map.String(),
			Room:       snap.Location.Room,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          BrokerStatus{Connected: snap.MQTTConnected, URL: snap.Config.Broker},
		NATS:          BrokerStatus{Connected: snap.NATSConnected, URL: snap.Config.NATSURL},
		Counts: CountsJSON{
			Splits:       snap.Counts.Splits,
			Resets:       snap.Counts.Resets,
			RunsStarted:  snap.Counts.RunsStarted,
			RunsFinished: snap.Counts.RunsFinished,
		},
		Config: ConfigJSON{
			LiveSplit:   snap.Config.LiveSplitAddr,
			UpdateMs:    snap.Config.UpdateMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			SplitType:   string(snap.Config.RequestedSplit),
			Source:      snap.Config.Source,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
	if snap.LastEvent != nil {
		inner.LastEvent = &LastEventJSON{
			Type:      string(snap.LastEvent.Type),
			Timestamp: snap.LastEvent.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}

// EventJSON is the published form of an orchestrator event.
type EventJSON struct {
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	RunID      string `json:"run_id,omitempty"`
	Run        string `json:"run"`
	Connection string `json:"connection"`
	SplitType  string `json:"split_type"`
	Map        string `json:"map"`
	Room       uint16 `json:"room"`
	SplitIndex int    `json:"split_index"`
}

// EventPayload wraps an event for publishing.
type EventPayload struct {
	Autosplitter EventJSON `json:"autosplitter"`
}

// FormatEvent returns the JSON payload published for an orchestrator event.
func FormatEvent(e logic.Event) ([]byte, error) {
	return json.Marshal(EventPayload{Autosplitter: EventJSON{
		Timestamp:  e.Timestamp.UTC().Format(time.RFC3339Nano),
		Event:      string(e.Type),
		RunID:      e.RunID,
		Run:        string(e.Run),
		Connection: string(e.Connection),
		SplitType:  e.SplitType.String(),
		Map:        e.Location.Map.String(),
		Room:       e.Location.Room,
		SplitIndex: e.SplitIndex,
	}})
}
