// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/keenan/cuff-monitor/internal/logic"
)

// Topic is the MQTT topic for completed measurements.
const Topic = "health/cuff-monitor/measurements"

// TopicWarning is the MQTT topic for safety warnings.
const TopicWarning = "health/cuff-monitor/warnings"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "health/cuff-monitor/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishMeasurement sends a completed measurement to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishMeasurement(event MeasurementEvent) error

	// PublishWarning sends a safety warning state change to the broker.
	PublishWarning(event WarningEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// MeasurementEvent represents one completed measurement session.
type MeasurementEvent struct {
	Timestamp time.Time
	MAP       float64 // mmHg
	BP        logic.BPResult
	Pulse     logic.PulseResult
	Saturated bool // envelope buffers overflowed during recording
}

// WarningEvent represents a safety warning state change.
type WarningEvent struct {
	Timestamp time.Time
	Kind      string  // e.g. "RELEASE_RATE", "MAX_PRESSURE"
	Active    bool    // warning raised or cleared
	Rate      float64 // mmHg per monitor interval (release-rate only)
}

// WarningReleaseRate is the Kind for deflation-too-fast warnings.
const WarningReleaseRate = "RELEASE_RATE"

// WarningMaxPressure is the Kind for cuff-over-limit warnings.
const WarningMaxPressure = "MAX_PRESSURE"

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "SESSION_ABORTED"
	Reason     string // e.g., "SIGTERM", "SENSOR_UNAVAILABLE"
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload for measurements.
type Payload struct {
	Measurement MeasurementPayload `json:"measurement"`
}

// MeasurementPayload contains the measurement details. Pressures and pulse
// are null when unreliable; the match errors are kept as diagnostics.
type MeasurementPayload struct {
	Timestamp      string   `json:"timestamp"`
	MAP            *float64 `json:"map_mmhg"`
	Systolic       *float64 `json:"systolic_mmhg"`
	Diastolic      *float64 `json:"diastolic_mmhg"`
	SystolicError  float64  `json:"systolic_match_error"`
	DiastolicError float64  `json:"diastolic_match_error"`
	PulseBPM       *float64 `json:"pulse_bpm"`
	PulseSamples   int      `json:"pulse_samples"`
	Saturated      bool     `json:"saturated"`
	Reliable       bool     `json:"reliable"`
}

// FormatMeasurementPayload creates the JSON payload for a measurement event.
func FormatMeasurementPayload(event MeasurementEvent) ([]byte, error) {
	payload := Payload{
		Measurement: MeasurementPayload{
			Timestamp:      event.Timestamp.UTC().Format(time.RFC3339),
			MAP:            optional(event.MAP),
			Systolic:       optional(event.BP.Systolic),
			Diastolic:      optional(event.BP.Diastolic),
			SystolicError:  event.BP.SystolicError,
			DiastolicError: event.BP.DiastolicError,
			PulseBPM:       optional(event.Pulse.Rate),
			PulseSamples:   event.Pulse.SampleCount,
			Saturated:      event.Saturated,
			Reliable:       event.BP.SystolicOK() && event.BP.DiastolicOK() && event.Pulse.OK(),
		},
	}
	return json.Marshal(payload)
}

// optional maps failure markers to null.
func optional(v float64) *float64 {
	if v < 0 {
		return nil
	}
	return &v
}

// WarningPayload represents the MQTT message payload for warnings.
type WarningPayload struct {
	Warning WarningPayloadInner `json:"warning"`
}

// WarningPayloadInner contains the warning details.
type WarningPayloadInner struct {
	Timestamp string   `json:"timestamp"`
	Kind      string   `json:"kind"`
	Active    bool     `json:"active"`
	Rate      *float64 `json:"release_rate_mmhg,omitempty"`
}

// FormatWarningPayload creates the JSON payload for a warning event.
func FormatWarningPayload(event WarningEvent) ([]byte, error) {
	inner := WarningPayloadInner{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Kind:      event.Kind,
		Active:    event.Active,
	}
	if event.Kind == WarningReleaseRate {
		inner.Rate = &event.Rate
	}
	return json.Marshal(WarningPayload{Warning: inner})
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
