// Package mqtt publishes appliance telemetry with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/aircon-controller/internal/control"
)

// Topic is the MQTT topic for appliance state transitions.
const Topic = "hvac/aircon/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "hvac/aircon/system"

// TransitionEvent describes one appliance state change.
type TransitionEvent struct {
	Timestamp  time.Time
	From       control.ApplianceState
	To         control.ApplianceState
	Compressor control.CompressorState
	Fan        control.FanState
}

// SystemEvent represents a system lifecycle event.
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g. "STARTUP", "SHUTDOWN", "HEARTBEAT", "REBOOT"
	Reason     string // e.g. "SIGTERM", "ping_failures"
	RawPayload []byte // pre-formatted payload; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// Publisher publishes telemetry to MQTT.
type Publisher interface {
	// PublishTransition sends a state-change event to the broker.
	// Returns error if publishing fails (must not crash the process).
	PublishTransition(event TransitionEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Payload is the MQTT message payload for transition events.
type Payload struct {
	Aircon AirconPayload `json:"aircon"`
}

// AirconPayload contains the transition details.
type AirconPayload struct {
	Timestamp  string `json:"timestamp"`
	From       string `json:"from"`
	To         string `json:"to"`
	Compressor string `json:"compressor"`
	Fan        string `json:"fan"`
}

// FormatPayload creates the JSON payload for a transition event.
func FormatPayload(event TransitionEvent) ([]byte, error) {
	return json.Marshal(Payload{
		Aircon: AirconPayload{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			From:       event.From.String(),
			To:         event.To.String(),
			Compressor: event.Compressor.String(),
			Fan:        event.Fan.String(),
		},
	})
}

// SystemPayload is the payload for simple system events that don't carry a
// full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event. If
// event.RawPayload is set, it is returned directly (used for full status
// snapshots).
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
