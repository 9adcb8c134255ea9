// Package status provides a thread-safe status tracker for the cuff-monitor
// daemon. It is read by the HTTP status server and embedded in MQTT system
// events.
package status

import (
	"sync"
	"time"

	"github.com/keenan/cuff-monitor/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	SampleMs  int64
	MonitorMs int64
	Broker    string
	HTTPAddr  string
	StreamURL string // NATS waveform feed (empty = disabled)
}

// Results holds the final estimates once a session finishes.
type Results struct {
	MAP       float64
	BP        logic.BPResult
	Pulse     logic.PulseResult
	Saturated bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	State         logic.State
	Pressure      float64 // latest smoothed cuff pressure, mmHg
	CaptureActive bool
	ReleaseRate   float64
	RateWarning   bool
	EnvelopeSize  int
	PeakCount     int
	Results       *Results
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
			State:     logic.StateIdle,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetState sets the session lifecycle state.
func (t *Tracker) SetState(state logic.State) {
	t.mu.Lock()
	t.snap.State = state
	t.mu.Unlock()
}

// UpdateCycle records the outcome of one sampling cycle.
// Called from the sampling loop on every reading.
func (t *Tracker) UpdateCycle(c logic.Cycle, envelopeSize, peakCount int) {
	t.mu.Lock()
	t.snap.State = c.State
	t.snap.Pressure = c.Smoothed
	t.snap.CaptureActive = c.CaptureActive
	t.snap.EnvelopeSize = envelopeSize
	t.snap.PeakCount = peakCount
	t.mu.Unlock()
}

// SetMonitor records the latest release-rate monitor tick.
func (t *Tracker) SetMonitor(rate float64, warning bool) {
	t.mu.Lock()
	t.snap.ReleaseRate = rate
	t.snap.RateWarning = warning
	t.mu.Unlock()
}

// SetResults records the final estimates.
func (t *Tracker) SetResults(r Results) {
	t.mu.Lock()
	t.snap.Results = &r
	t.snap.State = logic.StateFinished
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
