// Package mqtt publishes autosplitter events to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/galerians-autosplitter/internal/logic"
	"github.com/sweeney/galerians-autosplitter/internal/status"
)

// Topic carries one message per orchestrator event.
const Topic = "speedrun/autosplitter/events"

// TopicSystem carries lifecycle messages: startup, shutdown, heartbeat and
// the broker last will.
const TopicSystem = "speedrun/autosplitter/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an orchestrator event. Errors are not fatal.
	Publish(event logic.Event) error

	// PublishSystem sends a lifecycle event.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the broker connection is up.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a lifecycle event such as STARTUP, SHUTDOWN or HEARTBEAT.
type SystemEvent struct {
	Timestamp time.Time
	Event     string
	// Reason is set for SHUTDOWN, e.g. "SIGTERM".
	Reason string
	// RawPayload, if set, is sent as-is instead of the short system envelope.
	RawPayload []byte
	Retained   bool
}

// FormatPayload creates the JSON payload for an orchestrator event.
func FormatPayload(event logic.Event) ([]byte, error) {
	return status.FormatEvent(event)
}

// SystemPayload is the envelope for system events that carry no status
// snapshot, such as the last will.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}

// Sink forwards orchestrator events to a Publisher. Failures are logged and
// dropped so a broker outage never stalls splitting.
type Sink struct {
	Publisher Publisher
}

// Record publishes e.
func (s Sink) Record(e logic.Event) {
	if err := s.Publisher.Publish(e); err != nil {
		log.Warn().Err(err).Str("event", string(e.Type)).Msg("mqtt publish failed")
	}
}
