package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event  string `json:"event,omitempty"`
	Reason string `json:"reason,omitempty"`

	Command    string `json:"command"`
	State      string `json:"state"`
	Compressor string `json:"compressor"`
	Fan        string `json:"fan"`

	Evaporator ChannelJSON `json:"evaporator"`
	Outlet     ChannelJSON `json:"outlet"`

	Counts CountsJSON `json:"counters"`

	BootedSeconds  int64  `json:"booted_seconds"`
	PoweredSeconds int64  `json:"powered_seconds"`
	Timestamp      string `json:"timestamp"`

	MQTT   MQTTStatus `json:"mqtt"`
	Config ConfigJSON `json:"config"`
}

// ChannelJSON is the JSON representation of one temperature channel.
type ChannelJSON struct {
	TempC float64 `json:"temp_c"`
	Valid bool    `json:"valid"`
}

// CountsJSON is the JSON representation of the error and reboot counters.
type CountsJSON struct {
	SensorErrors uint64 `json:"sensor_errors"`
	PingFailures uint32 `json:"ping_failures"`
	Disconnects  uint32 `json:"disconnects"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SensorPollMs     int64  `json:"sensor_poll_ms"`
	ControllerTickMs int64  `json:"controller_tick_ms"`
	Broker           string `json:"broker"`
	HTTPAddr         string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Command:    snap.Command.String(),
		State:      snap.Appliance.String(),
		Compressor: snap.Compressor.String(),
		Fan:        snap.Fan.String(),
		Evaporator: ChannelJSON{TempC: snap.Evaporator.TempC, Valid: snap.Evaporator.Valid},
		Outlet:     ChannelJSON{TempC: snap.Outlet.TempC, Valid: snap.Outlet.Valid},
		Counts: CountsJSON{
			SensorErrors: snap.SensorErrors,
			PingFailures: snap.PingFailures,
			Disconnects:  snap.Disconnects,
		},
		BootedSeconds:  snap.BootedMs / 1000,
		PoweredSeconds: snap.PoweredMs / 1000,
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		MQTT:           MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			SensorPollMs:     snap.Config.SensorPollMs,
			ControllerTickMs: snap.Config.ControllerTickMs,
			Broker:           snap.Config.Broker,
			HTTPAddr:         snap.Config.HTTPAddr,
		},
	}
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
