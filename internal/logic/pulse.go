package logic

// EstimatePulse derives a pulse rate from debounced peak timestamps.
// Consecutive inter-peak intervals are kept only if they fall inside the
// plausible heart-rate window (35–150 bpm as interval bounds, inclusive);
// the rate is 60000 over the mean of the kept intervals.
func EstimatePulse(peakTimesMs []float64) PulseResult {
	lowerMs := 60000.0 / UpperPulseBPM
	upperMs := 60000.0 / LowerPulseBPM

	sum := 0.0
	count := 0
	for i := 1; i < len(peakTimesMs); i++ {
		interval := peakTimesMs[i] - peakTimesMs[i-1]
		if interval >= lowerMs && interval <= upperMs {
			sum += interval
			count++
		}
	}

	if count == 0 {
		return PulseResult{Rate: FailureMarker, SampleCount: 0}
	}
	return PulseResult{
		Rate:        60000.0 / (sum / float64(count)),
		SampleCount: count,
	}
}
