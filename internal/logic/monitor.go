package logic

// ReleaseMonitor flags excessive cuff-deflation speed. It is ticked on its
// own fixed interval, independently of the sampling cadence, and reads only
// the session's scalar snapshot — it never touches pipeline state.
type ReleaseMonitor struct {
	session  *Session
	lastRate float64
	warning  bool
}

// NewReleaseMonitor creates a monitor bound to the given session.
func NewReleaseMonitor(s *Session) *ReleaseMonitor {
	return &ReleaseMonitor{session: s}
}

// Tick evaluates the release rate once and returns whether the warning is
// active. The first MonitorWarmupCycles sampling cycles are skipped so the
// smoothing window has settled. The threshold is strict: exactly
// ReleaseRateWarn does not trigger.
func (m *ReleaseMonitor) Tick() bool {
	snap := m.session.Snapshot()
	if snap.Cycles > MonitorWarmupCycles {
		m.lastRate = snap.Smoothed - snap.Raw
		m.warning = m.lastRate > ReleaseRateWarn
	}
	return m.warning
}

// Warning returns the result of the most recent Tick.
func (m *ReleaseMonitor) Warning() bool {
	return m.warning
}

// Rate returns the release rate measured at the most recent Tick,
// in mmHg per monitor interval.
func (m *ReleaseMonitor) Rate() float64 {
	return m.lastRate
}
