package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/hall-sensor/internal/console"
	"github.com/sweeney/hall-sensor/internal/gpio"
	"github.com/sweeney/hall-sensor/internal/logic"
	"github.com/sweeney/hall-sensor/internal/mqtt"
	"github.com/sweeney/hall-sensor/internal/status"
)

// TestIntegrationFullFlow drives GPIO -> logic -> console/MQTT/status with fakes.
func TestIntegrationFullFlow(t *testing.T) {
	// No magnet, magnet arrives, stays, leaves.
	levels := []bool{gpio.High, gpio.High, gpio.Low, gpio.Low, gpio.Low, gpio.High}

	gpioReader := gpio.NewFakeReader(levels...)
	publisher := mqtt.NewFakePublisher()
	var buf bytes.Buffer
	out := console.New(&buf)
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	monitor := logic.NewMonitor(startTime)
	tracker := status.NewTracker(startTime, status.Config{Pin: gpio.DefaultPin, PollMs: 500})

	pollInterval := 500 * time.Millisecond

	for i := range levels {
		high, err := gpioReader.Read()
		if err != nil {
			t.Fatalf("iteration %d: gpio read error: %v", i, err)
		}

		now := startTime.Add(time.Duration(i) * pollInterval)
		reading, events := monitor.Process(logic.Input{High: high, Time: now})

		if err := out.Println(string(reading.Message)); err != nil {
			t.Fatalf("iteration %d: console error: %v", i, err)
		}
		for _, event := range events {
			if err := publisher.Publish(event); err != nil {
				t.Fatalf("iteration %d: publish error: %v", i, err)
			}
		}
		tracker.Update(reading, monitor.CountsSnapshot())
	}

	wantOut := strings.Join([]string{
		"No Magnet.",
		"No Magnet.",
		"Magnet Detected!",
		"Magnet Detected!",
		"Magnet Detected!",
		"No Magnet.",
	}, "\n") + "\n"
	if buf.String() != wantOut {
		t.Errorf("console output mismatch:\ngot:  %q\nwant: %q", buf.String(), wantOut)
	}

	if len(publisher.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(publisher.Events))
	}
	if publisher.Events[0].Type != logic.EventDetected {
		t.Errorf("event 0: expected MAGNET_DETECTED, got %s", publisher.Events[0].Type)
	}
	if !publisher.Events[0].Timestamp.Equal(startTime.Add(2 * pollInterval)) {
		t.Errorf("event 0: unexpected timestamp %v", publisher.Events[0].Timestamp)
	}
	if publisher.Events[1].Type != logic.EventCleared {
		t.Errorf("event 1: expected MAGNET_CLEARED, got %s", publisher.Events[1].Type)
	}

	for i, payload := range publisher.Payloads {
		var parsed mqtt.Payload
		if err := json.Unmarshal(payload, &parsed); err != nil {
			t.Errorf("payload %d: invalid JSON: %v", i, err)
		}
		if parsed.Hall.Timestamp == "" {
			t.Errorf("payload %d: missing timestamp", i)
		}
		if parsed.Hall.Message != "Magnet Detected!" && parsed.Hall.Message != "No Magnet." {
			t.Errorf("payload %d: unexpected message %q", i, parsed.Hall.Message)
		}
	}

	snap := tracker.Snapshot()
	if snap.Level != logic.LevelHigh {
		t.Errorf("final level: got %s, want HIGH", snap.Level)
	}
	if snap.Counts.Detected != 3 || snap.Counts.Clear != 3 || snap.Counts.Changes != 2 {
		t.Errorf("unexpected counts: %+v", snap.Counts)
	}
}

// TestIntegrationFlickerPreserved verifies alternating readings are printed
// and published as-is.
func TestIntegrationFlickerPreserved(t *testing.T) {
	levels := []bool{gpio.Low, gpio.High, gpio.Low, gpio.High}
	gpioReader := gpio.NewFakeReader(levels...)
	publisher := mqtt.NewFakePublisher()
	var buf bytes.Buffer
	out := console.New(&buf)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	monitor := logic.NewMonitor(start)

	for i := range levels {
		high, _ := gpioReader.Read()
		reading, events := monitor.Process(logic.Input{High: high, Time: start.Add(time.Duration(i) * time.Millisecond)})
		out.Println(string(reading.Message))
		for _, e := range events {
			publisher.Publish(e)
		}
	}

	want := "Magnet Detected!\nNo Magnet.\nMagnet Detected!\nNo Magnet.\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
	if len(publisher.Events) != 3 {
		t.Errorf("expected 3 change events, got %d", len(publisher.Events))
	}
}

// TestIntegrationStatusEventPayload checks the snapshot carried on MQTT system events.
func TestIntegrationStatusEventPayload(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := status.NewTracker(start, status.Config{Broker: "tcp://localhost:1883", Pin: 34})
	monitor := logic.NewMonitor(start)
	reading, _ := monitor.Process(logic.Input{High: false, Time: start})
	tracker.Update(reading, monitor.CountsSnapshot())

	publisher := mqtt.NewFakePublisher()
	snap := tracker.Snapshot()
	err := publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	var sj status.StatusJSON
	if err := json.Unmarshal(publisher.SystemPayloads[0], &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Event != "STARTUP" {
		t.Errorf("event: got %q, want STARTUP", sj.Status.Event)
	}
	if !sj.Status.Detected || sj.Status.Message != "Magnet Detected!" {
		t.Errorf("unexpected reading in payload: %+v", sj.Status)
	}
	if sj.Status.Config.Pin != 34 {
		t.Errorf("pin: got %d, want 34", sj.Status.Config.Pin)
	}
}
