package logic

import (
	"math"
	"testing"
)

func TestEstimatePulseRegularBeats(t *testing.T) {
	// 600 ms apart -> 100 bpm, well inside the 35-150 bpm window.
	result := EstimatePulse([]float64{0, 600, 1200, 1800})

	if !result.OK() {
		t.Fatal("expected a reliable pulse")
	}
	if math.Abs(result.Rate-100.0) > 1e-9 {
		t.Errorf("expected rate 100.0, got %v", result.Rate)
	}
	if result.SampleCount != 3 {
		t.Errorf("expected 3 intervals, got %d", result.SampleCount)
	}
}

func TestEstimatePulseOutOfRange(t *testing.T) {
	// 5000 ms apart -> 12 bpm, below the plausible range.
	result := EstimatePulse([]float64{0, 5000, 10000, 15000})

	if result.OK() {
		t.Fatalf("expected failure, got rate %v", result.Rate)
	}
	if result.Rate != FailureMarker {
		t.Errorf("expected failure marker, got %v", result.Rate)
	}
	if result.SampleCount != 0 {
		t.Errorf("expected 0 intervals, got %d", result.SampleCount)
	}
}

func TestEstimatePulseMixedIntervals(t *testing.T) {
	// Implausible intervals are dropped; only the two 600 ms gaps count.
	result := EstimatePulse([]float64{0, 600, 1200, 6200, 6500})

	if result.SampleCount != 2 {
		t.Fatalf("expected 2 kept intervals, got %d", result.SampleCount)
	}
	if math.Abs(result.Rate-100.0) > 1e-9 {
		t.Errorf("expected rate 100.0, got %v", result.Rate)
	}
}

func TestEstimatePulseFewPeaks(t *testing.T) {
	if r := EstimatePulse(nil); r.OK() {
		t.Errorf("expected failure for no peaks, got %+v", r)
	}
	if r := EstimatePulse([]float64{1000}); r.OK() {
		t.Errorf("expected failure for a single peak, got %+v", r)
	}
}

func TestEstimatePulseIntervalBoundsInclusive(t *testing.T) {
	// 400 ms is exactly 150 bpm and counts; so does 60000/35 ms for 35 bpm.
	upper := 60000.0 / LowerPulseBPM

	r := EstimatePulse([]float64{0, 400})
	if r.SampleCount != 1 || math.Abs(r.Rate-150.0) > 1e-9 {
		t.Errorf("expected 150 bpm at the fast bound, got %+v", r)
	}

	r = EstimatePulse([]float64{0, upper})
	if r.SampleCount != 1 || math.Abs(r.Rate-35.0) > 1e-9 {
		t.Errorf("expected 35 bpm at the slow bound, got %+v", r)
	}
}
