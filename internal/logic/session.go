package logic

import (
	"errors"
	"math"
	"sync"
)

// ErrNotFinished is returned by Finalize before the deflation cycle has
// completed.
var ErrNotFinished = errors.New("session not finished")

// Session owns one measurement from calibration through recording to the
// final estimates. It is driven by the caller: one Feed per sampling cycle.
// A finished session cannot be restarted; take a new one per measurement.
//
// All pipeline state is owned by the sampling side. The only state shared
// with the release-rate monitor is the (raw, smoothed, cycles) scalar triple,
// copied out under a mutex that is held for the copy only — the monitor can
// never block a sampling cycle for longer than that.
type Session struct {
	state         State
	smoother      Smoother
	envelope      *Envelope
	tracker       MAPTracker
	captureActive bool

	bp        BPResult
	pulse     PulseResult
	finalized bool

	mu     sync.Mutex
	shared MonitorSnapshot
}

// NewSession creates an idle session.
func NewSession() *Session {
	return &Session{
		state:    StateIdle,
		envelope: NewEnvelope(),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// BeginCalibration moves an idle session into the calibrating state.
// The calibration itself runs against the sensor, outside this package.
func (s *Session) BeginCalibration() {
	if s.state == StateIdle {
		s.state = StateCalibrating
	}
}

// StartRecording arms the session once the calibration offset is set.
// All accumulated buffers are reset.
func (s *Session) StartRecording() {
	if s.state != StateCalibrating {
		return
	}
	s.smoother = Smoother{}
	s.envelope = NewEnvelope()
	s.tracker = MAPTracker{}
	s.captureActive = false
	s.state = StateRecording
}

// Feed advances the session by one sampling cycle with a calibrated reading.
// userActive latches capture on; readings before that latch still warm up the
// smoothing window but are not recorded into the envelope or peak buffers.
// The session finishes when capture is active and the smoothed pressure
// drops below EndPressure.
func (s *Session) Feed(raw, elapsedMs float64, userActive bool) Cycle {
	if s.state != StateRecording {
		return Cycle{State: s.state, CaptureActive: s.captureActive}
	}

	if userActive {
		s.captureActive = true
	}

	smoothed := s.smoother.Update(raw)

	s.mu.Lock()
	s.shared = MonitorSnapshot{Raw: raw, Smoothed: smoothed, Cycles: s.smoother.Cycles()}
	s.mu.Unlock()

	recorded := s.envelope.Observe(raw, smoothed, s.captureActive, elapsedMs)

	if s.captureActive {
		if diff := math.Abs(raw - smoothed); diff < OutlierGuard {
			s.tracker.Observe(diff, smoothed)
		}
	}

	if s.captureActive && smoothed < EndPressure {
		s.state = StateFinished
	}

	return Cycle{
		State:         s.state,
		Smoothed:      smoothed,
		CaptureActive: s.captureActive,
		MaxPressure:   smoothed > MaxCuffPressure,
		PeakRecorded:  recorded,
		Saturated:     s.envelope.Saturated(),
	}
}

// Finalize runs the extraction passes over the accumulated buffers and
// returns the results. Valid only once the session is finished; the results
// are computed once and cached.
func (s *Session) Finalize() (BPResult, PulseResult, error) {
	if s.state != StateFinished {
		return BPResult{}, PulseResult{}, ErrNotFinished
	}
	if !s.finalized {
		s.bp = ExtractBP(s.envelope.Points(), s.tracker.PeakAmplitude())
		s.pulse = EstimatePulse(s.envelope.PeakTimes())
		s.finalized = true
	}
	return s.bp, s.pulse, nil
}

// MAP returns the current Mean Arterial Pressure estimate.
func (s *Session) MAP() float64 {
	return s.tracker.MAP()
}

// Envelope exposes the recorded envelope, e.g. for status reporting.
func (s *Session) Envelope() *Envelope {
	return s.envelope
}

// Snapshot returns a copy of the scalar state shared with the release-rate
// monitor. Safe to call from another goroutine.
func (s *Session) Snapshot() MonitorSnapshot {
	s.mu.Lock()
	snap := s.shared
	s.mu.Unlock()
	return snap
}
