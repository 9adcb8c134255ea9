package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	State         string       `json:"state"`
	PressureMmHg  float64      `json:"pressure_mmhg"`
	CaptureActive bool         `json:"capture_active"`
	ReleaseRate   float64      `json:"release_rate_mmhg"`
	RateWarning   bool         `json:"rate_warning"`
	EnvelopeSize  int          `json:"envelope_points"`
	PeakCount     int          `json:"pulse_peaks"`
	Results       *ResultsJSON `json:"results,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Config        ConfigJSON   `json:"config"`
}

// ResultsJSON is the JSON representation of the final estimates.
// Unreliable values carry the negative failure marker as-is.
type ResultsJSON struct {
	MAP            float64 `json:"map_mmhg"`
	Systolic       float64 `json:"systolic_mmhg"`
	Diastolic      float64 `json:"diastolic_mmhg"`
	SystolicError  float64 `json:"systolic_match_error"`
	DiastolicError float64 `json:"diastolic_match_error"`
	PulseBPM       float64 `json:"pulse_bpm"`
	PulseSamples   int     `json:"pulse_samples"`
	Saturated      bool    `json:"saturated"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SampleMs  int64  `json:"sample_ms"`
	MonitorMs int64  `json:"monitor_ms"`
	Broker    string `json:"broker"`
	HTTPAddr  string `json:"http_addr"`
	StreamURL string `json:"stream_url,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		State:         string(snap.State),
		PressureMmHg:  snap.Pressure,
		CaptureActive: snap.CaptureActive,
		ReleaseRate:   snap.ReleaseRate,
		RateWarning:   snap.RateWarning,
		EnvelopeSize:  snap.EnvelopeSize,
		PeakCount:     snap.PeakCount,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			SampleMs:  snap.Config.SampleMs,
			MonitorMs: snap.Config.MonitorMs,
			Broker:    snap.Config.Broker,
			HTTPAddr:  snap.Config.HTTPAddr,
			StreamURL: snap.Config.StreamURL,
		},
	}

	if snap.Results != nil {
		inner.Results = &ResultsJSON{
			MAP:            snap.Results.MAP,
			Systolic:       snap.Results.BP.Systolic,
			Diastolic:      snap.Results.BP.Diastolic,
			SystolicError:  snap.Results.BP.SystolicError,
			DiastolicError: snap.Results.BP.DiastolicError,
			PulseBPM:       snap.Results.Pulse.Rate,
			PulseSamples:   snap.Results.Pulse.SampleCount,
			Saturated:      snap.Results.Saturated,
		}
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
