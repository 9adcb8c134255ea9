package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/keenan/cuff-monitor/internal/logic"
	"github.com/keenan/cuff-monitor/internal/status"
)

func newTestServer() (*Server, *status.Tracker) {
	tracker := status.NewTracker(time.Now(), status.Config{
		SampleMs:  200,
		MonitorMs: 1000,
		Broker:    "tcp://broker.local:1883",
		HTTPAddr:  ":8080",
	})
	envelope := func() []logic.EnvelopePoint {
		return []logic.EnvelopePoint{
			{Pressure: 120.0, Amplitude: 3.1},
			{Pressure: 95.0, Amplitude: 5.4},
			{Pressure: 82.0, Amplitude: 4.0},
		}
	}
	return New(":0", tracker, envelope), tracker
}

func TestIndexPage(t *testing.T) {
	srv, tracker := newTestServer()
	tracker.UpdateCycle(logic.Cycle{State: logic.StateRecording, Smoothed: 128.4, CaptureActive: true}, 30, 7)

	rec := httptest.NewRecorder()
	srv.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{"RECORDING", "128.4", "active", "tcp://broker.local:1883"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "<h2>Results</h2>") {
		t.Error("results section rendered before a session finished")
	}
}

func TestIndexPageWithResults(t *testing.T) {
	srv, tracker := newTestServer()
	tracker.SetResults(status.Results{
		MAP: 95.0,
		BP: logic.BPResult{
			Systolic:  122.5,
			Diastolic: logic.FailureMarker,
		},
		Pulse: logic.PulseResult{Rate: 71.0, SampleCount: 10},
	})

	rec := httptest.NewRecorder()
	srv.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	for _, want := range []string{"<h2>Results</h2>", "122.5 mmHg", "71.0 bpm", "unreliable"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexNotFound(t *testing.T) {
	srv, _ := newTestServer()

	rec := httptest.NewRecorder()
	srv.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestEnvelopeEndpointDuringRecording(t *testing.T) {
	srv, tracker := newTestServer()
	tracker.UpdateCycle(logic.Cycle{State: logic.StateRecording, Smoothed: 120}, 3, 1)

	rec := httptest.NewRecorder()
	srv.handleEnvelope(rec, httptest.NewRequest(http.MethodGet, "/envelope.json", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 while recording", rec.Code)
	}
}

func TestEnvelopeEndpointAfterFinish(t *testing.T) {
	srv, tracker := newTestServer()
	tracker.SetResults(status.Results{MAP: 95.0})

	rec := httptest.NewRecorder()
	srv.handleEnvelope(rec, httptest.NewRequest(http.MethodGet, "/envelope.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var points []struct {
		Pressure  float64 `json:"pressure_mmhg"`
		Amplitude float64 `json:"amplitude_mmhg"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3", len(points))
	}
	if points[1].Pressure != 95.0 || points[1].Amplitude != 5.4 {
		t.Errorf("point[1] = %+v", points[1])
	}
}

func TestEnvelopeEndpointWithoutSource(t *testing.T) {
	tracker := status.NewTracker(time.Now(), status.Config{})
	srv := New(":0", tracker, nil)

	rec := httptest.NewRecorder()
	srv.handleEnvelope(rec, httptest.NewRequest(http.MethodGet, "/envelope.json", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 with no envelope source", rec.Code)
	}
}

func TestJSONEndpoint(t *testing.T) {
	srv, tracker := newTestServer()
	tracker.UpdateCycle(logic.Cycle{State: logic.StateCalibrating, Smoothed: 0.2}, 0, 0)

	rec := httptest.NewRecorder()
	srv.handleJSON(rec, httptest.NewRequest(http.MethodGet, "/index.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var decoded status.StatusJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if decoded.Status.State != string(logic.StateCalibrating) {
		t.Errorf("state = %q", decoded.Status.State)
	}
}
