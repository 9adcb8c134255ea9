// Package logic contains the pure measurement pipeline for the cuff monitor:
// smoothing, oscillometric envelope recording, MAP tracking, systolic/diastolic
// extraction, pulse estimation and the release-rate check.
// This package has NO external dependencies (no SPI, GPIO, MQTT, OS, or
// time.Sleep). Time is always injected as elapsed milliseconds.
package logic

// Algorithm constants. These are calibrated against the reference device and
// must not be tuned independently of each other.
const (
	// Acceptance band for envelope points (mmHg of smoothed cuff pressure).
	MinEnvelopePressure = 70.0
	MaxEnvelopePressure = 160.0

	// MAP is only tracked below this smoothed pressure (band [70, 110)).
	MaxMAPPressure = 110.0

	// A cycle whose raw reading deviates from the smoothed value by this
	// much or more is treated as sensor noise and ignored.
	OutlierGuard = 12.0

	// Minimum gap between two accepted pulse peak timestamps.
	PulseDebounceMs = 500.0

	// Characteristic ratio bounds (Rs, Rd). The matching targets are the
	// midpoints of these ranges.
	SystolicRatioLower  = 0.45
	SystolicRatioUpper  = 0.73
	DiastolicRatioLower = 0.69
	DiastolicRatioUpper = 0.83

	// Pressure-axis search bands for ratio matching (exclusive bounds).
	SystolicBandLower  = 100.0
	SystolicBandUpper  = 200.0
	DiastolicBandLower = 50.0
	DiastolicBandUpper = 90.0

	// Seed for the running minimum matching error. A band produces a
	// result only if some point beats this bound. Kept as the literal
	// 0.5 + 1.0 from the reference algorithm.
	MatchErrorSeed = 0.5 + 1.0

	// Plausible pulse range in beats per minute.
	LowerPulseBPM = 35.0
	UpperPulseBPM = 150.0

	// Release-rate warning threshold (mmHg per monitor interval) and the
	// number of sampling cycles before the monitor starts judging.
	ReleaseRateWarn     = 4.0
	MonitorWarmupCycles = 5

	// Smoothed pressure above which the caller should be told to release
	// cuff pressure, and below which an active recording ends.
	MaxCuffPressure = 200.0
	EndPressure     = 5.0

	// Capacity of the envelope and pulse-peak buffers.
	BufferCapacity = 1000

	// SmoothingSlots is the depth of the smoothing window.
	SmoothingSlots = 5
)

// FailureMarker is reported in place of a pressure or pulse value when no
// reliable estimate exists. Recoverable by re-running the measurement.
const FailureMarker = -1.0

// State is the lifecycle state of a measurement session.
type State string

const (
	StateIdle        State = "IDLE"
	StateCalibrating State = "CALIBRATING"
	StateRecording   State = "RECORDING"
	StateFinished    State = "FINISHED"
)

// EnvelopePoint is one point of the oscillometric waveform envelope:
// oscillation amplitude against smoothed cuff pressure.
type EnvelopePoint struct {
	Pressure  float64 // mmHg, smoothed (x axis)
	Amplitude float64 // mmHg, |raw - smoothed| at the local maximum (y axis)
}

// BPResult holds the extracted blood pressure values. Systolic and Diastolic
// are FailureMarker when no envelope point matched within the error bound;
// the matching errors are kept as diagnostics either way.
type BPResult struct {
	Systolic       float64
	Diastolic      float64
	SystolicError  float64
	DiastolicError float64
}

// SystolicOK reports whether a reliable systolic value was found.
func (r BPResult) SystolicOK() bool { return r.Systolic >= 0 }

// DiastolicOK reports whether a reliable diastolic value was found.
func (r BPResult) DiastolicOK() bool { return r.Diastolic >= 0 }

// PulseResult holds the estimated pulse rate. Rate is FailureMarker and
// SampleCount 0 when no inter-peak interval fell in the plausible range.
type PulseResult struct {
	Rate        float64 // beats per minute
	SampleCount int     // intervals the estimate was averaged over
}

// OK reports whether a reliable pulse was found.
func (r PulseResult) OK() bool { return r.SampleCount > 0 }

// Cycle is the outcome of feeding one reading to a session. The caller
// drives indicators and publishing from it; the session itself does no I/O.
type Cycle struct {
	State State

	// Smoothed is the smoothing-window output for this cycle.
	Smoothed float64

	// CaptureActive is the latched user start signal.
	CaptureActive bool

	// MaxPressure is set while the smoothed pressure exceeds the cuff
	// limit and the caller should signal pressure release.
	MaxPressure bool

	// PeakRecorded is set when this cycle appended an envelope point.
	PeakRecorded bool

	// Saturated is set once either bounded buffer has rejected a point.
	Saturated bool
}

// MonitorSnapshot is the scalar state shared with the release-rate monitor.
// It is a value copy; the monitor never holds session locks.
type MonitorSnapshot struct {
	Raw      float64 // latest calibrated reading
	Smoothed float64 // latest smoothing-window output
	Cycles   int     // sampling cycles completed
}
