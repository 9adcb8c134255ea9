// Package web provides an HTTP status server for the cuff-monitor daemon.
package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/keenan/cuff-monitor/internal/logic"
	"github.com/keenan/cuff-monitor/internal/status"
)

// EnvelopeSource returns the recorded envelope points. Only consulted after a
// session has finished, when the sampling loop no longer appends to them.
type EnvelopeSource func() []logic.EnvelopePoint

// Server serves the status page, the status JSON and the recorded envelope.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	envelope   EnvelopeSource
}

// New creates a Server that reads state from the given tracker. envelope may
// be nil, disabling the envelope endpoint.
func New(addr string, tracker *status.Tracker, envelope EnvelopeSource) *Server {
	s := &Server{tracker: tracker, envelope: envelope}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/envelope.json", s.handleEnvelope)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// envelopeJSON is one exported envelope point.
type envelopeJSON struct {
	PressureMmHg  float64 `json:"pressure_mmhg"`
	AmplitudeMmHg float64 `json:"amplitude_mmhg"`
}

// handleEnvelope exports the oscillometric envelope for offline plotting.
// Available only once the measurement has finished; while recording, the
// points are owned exclusively by the sampling loop.
func (s *Server) handleEnvelope(w http.ResponseWriter, r *http.Request) {
	if s.envelope == nil {
		http.NotFound(w, r)
		return
	}
	if s.tracker.Snapshot().Results == nil {
		http.Error(w, "measurement in progress", http.StatusConflict)
		return
	}

	points := s.envelope()
	out := make([]envelopeJSON, len(points))
	for i, p := range points {
		out[i] = envelopeJSON{PressureMmHg: p.Pressure, AmplitudeMmHg: p.Amplitude}
	}

	w.Header().Set("Content-Type", "application/json")
	data, _ := json.MarshalIndent(out, "", "  ")
	w.Write(data)
}
