package logic

// MAPTracker tracks the largest oscillation amplitude observed while the
// smoothed pressure lies in [MinEnvelopePressure, MaxMAPPressure). The
// smoothed pressure at that amplitude is the Mean Arterial Pressure estimate.
// Updates are monotonic: only a strictly larger amplitude replaces the peak.
type MAPTracker struct {
	peakAmplitude float64
	mapPressure   float64
	set           bool
}

// Observe feeds one cycle's amplitude and smoothed pressure.
// It reports whether the MAP estimate was replaced.
func (m *MAPTracker) Observe(diff, smoothed float64) bool {
	if diff > m.peakAmplitude && smoothed >= MinEnvelopePressure && smoothed < MaxMAPPressure {
		m.peakAmplitude = diff
		m.mapPressure = smoothed
		m.set = true
		return true
	}
	return false
}

// MAP returns the Mean Arterial Pressure estimate in mmHg, or FailureMarker
// if no amplitude was ever observed in the MAP band.
func (m *MAPTracker) MAP() float64 {
	if !m.set {
		return FailureMarker
	}
	return m.mapPressure
}

// PeakAmplitude returns the largest amplitude observed in the MAP band.
func (m *MAPTracker) PeakAmplitude() float64 {
	return m.peakAmplitude
}
