package logic

import "time"

// LevelOf converts a raw pin value into a Level.
func LevelOf(high bool) Level {
	if high {
		return LevelHigh
	}
	return LevelLow
}

// Classify maps a pin level to its console message.
// The sensor pulls its output LOW when a magnet is near, so LOW means detected.
// Any level other than LOW is reported as no magnet.
func Classify(level Level) Message {
	if level == LevelLow {
		return MessageDetected
	}
	return MessageClear
}

// Monitor classifies samples and reports detection state changes.
// There is no debounce: every raw change between two consecutive
// samples is reported.
type Monitor struct {
	startTime     time.Time
	last          *Reading
	counts        Counts
	lastHeartbeat time.Time
}

// NewMonitor creates a Monitor. The startTime is used for calculating uptime
// in heartbeat events.
func NewMonitor(startTime time.Time) *Monitor {
	return &Monitor{
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process classifies a sample and returns the reading plus any change events.
// The first sample establishes the baseline and never produces an event.
func (m *Monitor) Process(input Input) (Reading, []Event) {
	level := LevelOf(input.High)
	msg := Classify(level)
	r := Reading{
		Time:     input.Time,
		Level:    level,
		Detected: msg == MessageDetected,
		Message:  msg,
	}

	if r.Detected {
		m.counts.Detected++
	} else {
		m.counts.Clear++
	}

	prev := m.last
	m.last = &r
	if prev == nil || prev.Detected == r.Detected {
		return r, nil
	}

	m.counts.Changes++
	typ := EventCleared
	if r.Detected {
		typ = EventDetected
	}
	return r, []Event{{
		Timestamp: input.Time,
		Type:      typ,
		Level:     level,
		Message:   msg,
	}}
}

// Last returns the most recent reading, or false if nothing was processed yet.
func (m *Monitor) Last() (Reading, bool) {
	if m.last == nil {
		return Reading{}, false
	}
	return *m.last, true
}

// CountsSnapshot returns a copy of the current counts.
func (m *Monitor) CountsSnapshot() Counts {
	return m.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if no sample was processed yet,
// if the interval has not elapsed, or if interval is <= 0 (disabled).
func (m *Monitor) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if m.last == nil {
		return nil
	}

	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		Counts:    m.counts,
	}
}
