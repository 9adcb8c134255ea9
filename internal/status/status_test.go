package status

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/keenan/cuff-monitor/internal/logic"
)

func testConfig() Config {
	return Config{
		SampleMs:  200,
		MonitorMs: 1000,
		Broker:    "tcp://broker.local:1883",
		HTTPAddr:  ":8080",
	}
}

func TestTrackerInitialSnapshot(t *testing.T) {
	start := time.Now().Add(-30 * time.Second)
	tracker := NewTracker(start, testConfig())

	snap := tracker.Snapshot()
	if snap.State != logic.StateIdle {
		t.Errorf("state = %v, want %v", snap.State, logic.StateIdle)
	}
	if snap.StartTime != start {
		t.Errorf("start time = %v, want %v", snap.StartTime, start)
	}
	if snap.Results != nil {
		t.Error("fresh tracker should have no results")
	}
	if snap.Uptime() < 29*time.Second {
		t.Errorf("uptime = %v, want about 30s", snap.Uptime())
	}
}

func TestTrackerUpdateCycle(t *testing.T) {
	tracker := NewTracker(time.Now(), testConfig())

	tracker.UpdateCycle(logic.Cycle{
		State:         logic.StateRecording,
		Smoothed:      134.2,
		CaptureActive: true,
	}, 48, 12)

	snap := tracker.Snapshot()
	if snap.State != logic.StateRecording {
		t.Errorf("state = %v, want %v", snap.State, logic.StateRecording)
	}
	if snap.Pressure != 134.2 {
		t.Errorf("pressure = %v, want 134.2", snap.Pressure)
	}
	if !snap.CaptureActive {
		t.Error("capture active not recorded")
	}
	if snap.EnvelopeSize != 48 || snap.PeakCount != 12 {
		t.Errorf("envelope/peaks = %d/%d, want 48/12", snap.EnvelopeSize, snap.PeakCount)
	}
}

func TestTrackerSetMonitor(t *testing.T) {
	tracker := NewTracker(time.Now(), testConfig())

	tracker.SetMonitor(4.6, true)
	snap := tracker.Snapshot()
	if snap.ReleaseRate != 4.6 || !snap.RateWarning {
		t.Errorf("monitor = (%v, %v), want (4.6, true)", snap.ReleaseRate, snap.RateWarning)
	}

	tracker.SetMonitor(2.1, false)
	snap = tracker.Snapshot()
	if snap.ReleaseRate != 2.1 || snap.RateWarning {
		t.Errorf("monitor = (%v, %v), want (2.1, false)", snap.ReleaseRate, snap.RateWarning)
	}
}

func TestTrackerSetResults(t *testing.T) {
	tracker := NewTracker(time.Now(), testConfig())
	tracker.SetState(logic.StateRecording)

	tracker.SetResults(Results{
		MAP:   96.0,
		BP:    logic.BPResult{Systolic: 124.0, Diastolic: 81.0},
		Pulse: logic.PulseResult{Rate: 68.0, SampleCount: 9},
	})

	snap := tracker.Snapshot()
	if snap.State != logic.StateFinished {
		t.Errorf("state = %v, want %v", snap.State, logic.StateFinished)
	}
	if snap.Results == nil {
		t.Fatal("results not recorded")
	}
	if snap.Results.MAP != 96.0 || snap.Results.BP.Systolic != 124.0 {
		t.Errorf("results = %+v", snap.Results)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	tracker := NewTracker(time.Now(), testConfig())
	snap := tracker.Snapshot()

	tracker.UpdateCycle(logic.Cycle{State: logic.StateRecording, Smoothed: 150}, 1, 0)

	if snap.Pressure == 150 || snap.State == logic.StateRecording {
		t.Error("snapshot mutated by later tracker updates")
	}
}

func TestFormatJSON(t *testing.T) {
	tracker := NewTracker(time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC), testConfig())
	tracker.UpdateCycle(logic.Cycle{State: logic.StateRecording, Smoothed: 110.5, CaptureActive: true}, 20, 6)
	tracker.SetMQTTConnected(true)

	data := FormatJSON(tracker.Snapshot())

	var decoded StatusJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}

	s := decoded.Status
	if s.State != string(logic.StateRecording) {
		t.Errorf("state = %q", s.State)
	}
	if s.PressureMmHg != 110.5 {
		t.Errorf("pressure = %v", s.PressureMmHg)
	}
	if s.EnvelopeSize != 20 || s.PeakCount != 6 {
		t.Errorf("envelope/peaks = %d/%d", s.EnvelopeSize, s.PeakCount)
	}
	if !s.MQTT.Connected || s.MQTT.Broker != "tcp://broker.local:1883" {
		t.Errorf("mqtt = %+v", s.MQTT)
	}
	if s.Config.SampleMs != 200 || s.Config.MonitorMs != 1000 {
		t.Errorf("config = %+v", s.Config)
	}
	if s.Event != "" || s.Reason != "" {
		t.Errorf("web status must not carry event fields, got %q/%q", s.Event, s.Reason)
	}
	if s.Results != nil {
		t.Error("results present before a session finished")
	}
}

func TestFormatJSONWithResults(t *testing.T) {
	tracker := NewTracker(time.Now(), testConfig())
	tracker.SetResults(Results{
		MAP: 93.0,
		BP: logic.BPResult{
			Systolic:       logic.FailureMarker,
			Diastolic:      79.5,
			SystolicError:  logic.MatchErrorSeed,
			DiastolicError: 0.3,
		},
		Pulse:     logic.PulseResult{Rate: 74.0, SampleCount: 8},
		Saturated: true,
	})

	data := FormatJSON(tracker.Snapshot())

	var decoded StatusJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}

	r := decoded.Status.Results
	if r == nil {
		t.Fatal("results missing")
	}
	// The diagnostic endpoint keeps the raw marker value.
	if r.Systolic != logic.FailureMarker {
		t.Errorf("systolic = %v, want marker", r.Systolic)
	}
	if r.Diastolic != 79.5 || r.PulseBPM != 74.0 || !r.Saturated {
		t.Errorf("results = %+v", r)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tracker := NewTracker(time.Now(), testConfig())

	data := FormatStatusEvent(tracker.Snapshot(), "STARTUP", "")

	var decoded StatusJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal status event: %v", err)
	}
	if decoded.Status.Event != "STARTUP" {
		t.Errorf("event = %q, want STARTUP", decoded.Status.Event)
	}
	if strings.Contains(string(data), `"reason"`) {
		t.Error("empty reason should be omitted")
	}
}
