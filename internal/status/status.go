// Package status provides a thread-safe status tracker for the hall-sensor daemon.
// It is read by the HTTP handlers and by the MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/hall-sensor/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Backend     string
	Chip        string
	Pin         int
	Serial      string // empty = stdout
	Baud        int
	PollMs      int64
	HeartbeatMs int64
	Broker      string // empty = MQTT disabled
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Level         logic.Level
	Message       logic.Message
	LastRead      time.Time
	Ready         bool // at least one reading has been taken
	Counts        logic.Counts
	ReadErrors    int
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records the latest reading and counts.
// Called from runLoop on every successful poll.
func (t *Tracker) Update(r logic.Reading, counts logic.Counts) {
	t.mu.Lock()
	t.snap.Level = r.Level
	t.snap.Message = r.Message
	t.snap.LastRead = r.Time
	t.snap.Ready = true
	t.snap.Counts = counts
	t.mu.Unlock()
}

// RecordReadError increments the failed-read counter.
func (t *Tracker) RecordReadError() {
	t.mu.Lock()
	t.snap.ReadErrors++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
