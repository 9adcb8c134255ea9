package logic

import "testing"

// feedCycles feeds the session one reading per value, 200 ms apart.
func feedCycles(s *Session, values []float64) {
	for i, v := range values {
		s.Feed(v, float64(i)*200, false)
	}
}

func TestMonitorWarmup(t *testing.T) {
	s := startRecording(t)
	m := NewReleaseMonitor(s)

	// Five cycles is still warm-up: even a huge drop must not warn.
	feedCycles(s, []float64{100, 100, 100, 100, 20})
	if m.Tick() {
		t.Error("monitor must stay quiet during warm-up")
	}
}

func TestMonitorWarnsOnFastRelease(t *testing.T) {
	s := startRecording(t)
	m := NewReleaseMonitor(s)

	// Six cycles: smoothed = mean(4, 10, 10, 10, 10) = 8.8, raw = 4.
	// Release rate 4.8 exceeds the threshold.
	feedCycles(s, []float64{10, 10, 10, 10, 10, 4})
	if !m.Tick() {
		t.Fatalf("expected warning at rate %v", m.Rate())
	}
	if !almostEqual(m.Rate(), 4.8) {
		t.Errorf("expected rate 4.8, got %v", m.Rate())
	}
	if !m.Warning() {
		t.Error("Warning() must reflect the last tick")
	}
}

func TestMonitorBoundaryDoesNotTrigger(t *testing.T) {
	s := startRecording(t)
	m := NewReleaseMonitor(s)

	// smoothed = mean(5, 10, 10, 10, 10) = 9, raw = 5: rate exactly 4.0.
	// The condition is strict: the boundary must not warn.
	feedCycles(s, []float64{10, 10, 10, 10, 10, 5})
	if m.Tick() {
		t.Errorf("rate exactly %v must not trigger, got warning", m.Rate())
	}
	if m.Rate() != 4.0 {
		t.Errorf("expected rate 4.0, got %v", m.Rate())
	}
}

func TestMonitorClearsWarning(t *testing.T) {
	s := startRecording(t)
	m := NewReleaseMonitor(s)

	feedCycles(s, []float64{10, 10, 10, 10, 10, 4})
	if !m.Tick() {
		t.Fatal("expected initial warning")
	}

	// Pressure steadies: the next tick clears the warning.
	for i := 0; i < 5; i++ {
		s.Feed(4, float64(6+i)*200, false)
	}
	if m.Tick() {
		t.Errorf("expected warning cleared at rate %v", m.Rate())
	}
	if m.Warning() {
		t.Error("Warning() must clear with the tick")
	}
}

func TestMonitorIndependentOfSamplingCadence(t *testing.T) {
	s := startRecording(t)
	m := NewReleaseMonitor(s)

	feedCycles(s, []float64{10, 10, 10, 10, 10, 4})

	// Consecutive ticks between sampling cycles see the same snapshot.
	first := m.Tick()
	second := m.Tick()
	if first != second {
		t.Error("ticks without new samples must agree")
	}
}
