package logic

import "math"

// Envelope detects local maxima of oscillation amplitude and records them as
// envelope points, timestamping accepted peaks for pulse analysis.
//
// Amplitude rises and falls as the cuff deflates across systolic, MAP and
// diastolic pressure. A point is recorded on the first cycle whose amplitude
// drops below the previous cycle's, using the previous amplitude as the peak
// value — one cycle late, which is how the reference algorithm captures the
// true local maximum and must not be "corrected".
//
// Both buffers are bounded at BufferCapacity. On overflow further points are
// rejected and Saturated latches true; existing points are never dropped,
// since the extractor needs the early high-pressure half of the envelope.
type Envelope struct {
	points    []EnvelopePoint
	peakTimes []float64
	prevDiff  float64
	saturated bool
}

// NewEnvelope creates an empty envelope with both buffers preallocated.
func NewEnvelope() *Envelope {
	return &Envelope{
		points:    make([]EnvelopePoint, 0, BufferCapacity),
		peakTimes: make([]float64, 0, BufferCapacity),
	}
}

// Observe feeds one sampling cycle. It reports whether an envelope point was
// recorded. Cycles are ignored entirely while recording is false.
func (e *Envelope) Observe(raw, smoothed float64, recording bool, elapsedMs float64) bool {
	if !recording {
		return false
	}

	// Outlier cycles are complete no-ops: updating prevDiff from one would
	// let its amplitude be recorded as a peak on the next falling cycle.
	diff := math.Abs(raw - smoothed)
	if diff >= OutlierGuard || math.IsNaN(smoothed) || math.IsInf(smoothed, 0) {
		return false
	}

	recorded := false
	if smoothed >= MinEnvelopePressure && smoothed <= MaxEnvelopePressure && diff < e.prevDiff {
		// The previous cycle was the local maximum.
		if len(e.peakTimes) == 0 || elapsedMs-e.peakTimes[len(e.peakTimes)-1] > PulseDebounceMs {
			if len(e.peakTimes) < BufferCapacity {
				e.peakTimes = append(e.peakTimes, elapsedMs)
			} else {
				e.saturated = true
			}
		}
		if len(e.points) < BufferCapacity {
			e.points = append(e.points, EnvelopePoint{Pressure: smoothed, Amplitude: e.prevDiff})
			recorded = true
		} else {
			e.saturated = true
		}
	}

	// Updated even when no point was recorded (out of band, amplitude
	// rising), so the next comparison always sees this cycle's amplitude.
	e.prevDiff = diff
	return recorded
}

// Points returns the recorded envelope points in insertion order.
func (e *Envelope) Points() []EnvelopePoint {
	return e.points
}

// PeakTimes returns the debounced peak timestamps in milliseconds.
func (e *Envelope) PeakTimes() []float64 {
	return e.peakTimes
}

// Saturated reports whether either buffer has rejected a point.
func (e *Envelope) Saturated() bool {
	return e.saturated
}
