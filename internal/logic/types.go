// Package logic contains the pure mapping from Hall sensor pin levels to
// console messages.
// This package has NO external dependencies (no GPIO, serial, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Level is the logic level read from the sensor pin.
type Level string

const (
	LevelLow  Level = "LOW"
	LevelHigh Level = "HIGH"
)

// Message is one of the two lines written to the console.
type Message string

const (
	MessageDetected Message = "Magnet Detected!"
	MessageClear    Message = "No Magnet."
)

// EventType represents a change in detection state.
type EventType string

const (
	EventDetected EventType = "MAGNET_DETECTED"
	EventCleared  EventType = "MAGNET_CLEARED"
)

// Input represents a single raw sample of the sensor pin.
type Input struct {
	High bool // raw level, true = HIGH (sensor output is active-low)
	Time time.Time
}

// Reading is the classified result of one poll iteration.
type Reading struct {
	Time     time.Time
	Level    Level
	Detected bool
	Message  Message
}

// Event represents a detection state change to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Level     Level
	Message   Message
}

// Counts tracks how many lines of each message were emitted since startup.
type Counts struct {
	Detected int
	Clear    int
	Changes  int
}

// Total returns the number of readings classified.
func (c Counts) Total() int {
	return c.Detected + c.Clear
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}
