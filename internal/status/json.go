package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/hall-sensor/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Level         string     `json:"level"`
	Message       string     `json:"message,omitempty"`
	Detected      bool       `json:"detected"`
	Ready         bool       `json:"ready"`
	LastRead      string     `json:"last_read,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Enabled   bool   `json:"enabled"`
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// CountsJSON is the JSON representation of reading counts.
type CountsJSON struct {
	Detected   int `json:"detected"`
	Clear      int `json:"clear"`
	Changes    int `json:"changes"`
	ReadErrors int `json:"read_errors"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Backend     string `json:"backend"`
	Chip        string `json:"chip"`
	Pin         int    `json:"pin"`
	Serial      string `json:"serial"`
	Baud        int    `json:"baud"`
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	HTTPAddr    string `json:"http_addr,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	level := string(snap.Level)
	if level == "" {
		level = "UNKNOWN"
	}
	serial := snap.Config.Serial
	if serial == "" {
		serial = "stdout"
	}

	inner := StatusInner{
		Level:         level,
		Message:       string(snap.Message),
		Detected:      snap.Ready && snap.Level == logic.LevelLow,
		Ready:         snap.Ready,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT: MQTTStatus{
			Enabled:   snap.Config.Broker != "",
			Connected: snap.MQTTConnected,
			Broker:    snap.Config.Broker,
		},
		Counts: CountsJSON{
			Detected:   snap.Counts.Detected,
			Clear:      snap.Counts.Clear,
			Changes:    snap.Counts.Changes,
			ReadErrors: snap.ReadErrors,
		},
		Config: ConfigJSON{
			Backend:     snap.Config.Backend,
			Chip:        snap.Config.Chip,
			Pin:         snap.Config.Pin,
			Serial:      serial,
			Baud:        snap.Config.Baud,
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
	if !snap.LastRead.IsZero() {
		inner.LastRead = snap.LastRead.UTC().Format(time.RFC3339Nano)
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
