package status

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/hall-sensor/internal/logic"
)

func testConfig() Config {
	return Config{
		Backend:     "gpiocdev",
		Chip:        "gpiochip0",
		Pin:         34,
		Baud:        115200,
		PollMs:      500,
		HeartbeatMs: 900000,
	}
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 500 {
		t.Errorf("Config.PollMs: got %d, want 500", snap.Config.PollMs)
	}
	if snap.Config.Pin != 34 {
		t.Errorf("Config.Pin: got %d, want 34", snap.Config.Pin)
	}
	if snap.Ready {
		t.Error("expected Ready=false initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	readAt := time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC)

	tr.Update(logic.Reading{
		Time:     readAt,
		Level:    logic.LevelLow,
		Detected: true,
		Message:  logic.MessageDetected,
	}, logic.Counts{Detected: 3, Clear: 1, Changes: 1})

	snap := tr.Snapshot()
	if snap.Level != logic.LevelLow {
		t.Errorf("Level: got %q, want LOW", snap.Level)
	}
	if snap.Message != logic.MessageDetected {
		t.Errorf("Message: got %q", snap.Message)
	}
	if !snap.LastRead.Equal(readAt) {
		t.Errorf("LastRead: got %v, want %v", snap.LastRead, readAt)
	}
	if !snap.Ready {
		t.Error("expected Ready=true")
	}
	if snap.Counts.Detected != 3 || snap.Counts.Clear != 1 {
		t.Errorf("unexpected counts: %+v", snap.Counts)
	}
}

func TestRecordReadError(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.RecordReadError()
	tr.RecordReadError()

	if got := tr.Snapshot().ReadErrors; got != 2 {
		t.Errorf("ReadErrors: got %d, want 2", got)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 1, 2, 3, 0, time.UTC),
	}
	if got := snap.Uptime(); got != time.Hour+2*time.Minute+3*time.Second {
		t.Errorf("Uptime: got %v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tr.Update(logic.Reading{Level: logic.LevelOf(i%2 == 0)}, logic.Counts{Clear: i})
			tr.SetMQTTConnected(i%2 == 0)
			tr.RecordReadError()
		}(i)
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()

	if got := tr.Snapshot().ReadErrors; got != 10 {
		t.Errorf("ReadErrors: got %d, want 10", got)
	}
}

func TestFormatJSONBeforeFirstRead(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC),
		Config:    testConfig(),
	}

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if sj.Status.Level != "UNKNOWN" {
		t.Errorf("Level: got %q, want UNKNOWN", sj.Status.Level)
	}
	if sj.Status.Ready {
		t.Error("expected Ready=false")
	}
	if sj.Status.Detected {
		t.Error("expected Detected=false before first read")
	}
	if sj.Status.LastRead != "" {
		t.Errorf("LastRead: got %q, want empty", sj.Status.LastRead)
	}
	if sj.Status.UptimeSeconds != 5 {
		t.Errorf("UptimeSeconds: got %d, want 5", sj.Status.UptimeSeconds)
	}
	if sj.Status.Config.Serial != "stdout" {
		t.Errorf("Config.Serial: got %q, want stdout", sj.Status.Config.Serial)
	}
	if sj.Status.MQTT.Enabled {
		t.Error("expected MQTT disabled with empty broker")
	}
}

func TestFormatJSONDetected(t *testing.T) {
	cfg := testConfig()
	cfg.Serial = "/dev/ttyUSB0"
	cfg.Broker = "tcp://localhost:1883"
	snap := Snapshot{
		Level:         logic.LevelLow,
		Message:       logic.MessageDetected,
		LastRead:      time.Date(2026, 1, 1, 0, 0, 1, 500000000, time.UTC),
		Ready:         true,
		Counts:        logic.Counts{Detected: 2, Clear: 4, Changes: 3},
		ReadErrors:    1,
		StartTime:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:           time.Date(2026, 1, 1, 0, 0, 2, 0, time.UTC),
		MQTTConnected: true,
		Config:        cfg,
	}

	data := FormatJSON(snap)
	if !strings.Contains(string(data), "\n  ") {
		t.Error("expected indented JSON for web output")
	}

	var sj StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := sj.Status
	if s.Level != "LOW" || s.Message != "Magnet Detected!" || !s.Detected {
		t.Errorf("unexpected reading fields: %+v", s)
	}
	if s.LastRead != "2026-01-01T00:00:01.5Z" {
		t.Errorf("LastRead: got %q", s.LastRead)
	}
	if s.Counts != (CountsJSON{Detected: 2, Clear: 4, Changes: 3, ReadErrors: 1}) {
		t.Errorf("unexpected counts: %+v", s.Counts)
	}
	if !s.MQTT.Enabled || !s.MQTT.Connected || s.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("unexpected mqtt: %+v", s.MQTT)
	}
	if s.Config.Serial != "/dev/ttyUSB0" || s.Config.Baud != 115200 {
		t.Errorf("unexpected config: %+v", s.Config)
	}
	if s.Event != "" || s.Reason != "" {
		t.Error("web JSON should not carry event/reason")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	snap := Snapshot{
		Level:     logic.LevelHigh,
		Message:   logic.MessageClear,
		Ready:     true,
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Config:    testConfig(),
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")
	if strings.Contains(string(data), "\n") {
		t.Error("MQTT status event should be compact JSON")
	}

	var sj StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q", sj.Status.Event)
	}
	if sj.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q", sj.Status.Reason)
	}
	if sj.Status.Detected {
		t.Error("HIGH level should not be reported as detected")
	}
}
