package logic

import "math"

// ExtractBP locates the systolic and diastolic pressures in a recorded
// envelope by characteristic-ratio matching: the target amplitudes are fixed
// fractions (midpoints of the Rs and Rd ranges) of the peak amplitude, and
// each side is matched against envelope points in its own pressure band —
// systolic above MAP, diastolic below.
//
// The running minimum error for each side starts at MatchErrorSeed and only
// tightens on strictly smaller errors, so the first point wins ties and a
// side yields a result only if some in-band point beats the seed. A side with
// no acceptable point reports FailureMarker; the best-seen error is reported
// as a diagnostic either way.
func ExtractBP(envelope []EnvelopePoint, peakAmplitude float64) BPResult {
	systolicTarget := (SystolicRatioLower + SystolicRatioUpper) / 2.0 * peakAmplitude
	diastolicTarget := (DiastolicRatioLower + DiastolicRatioUpper) / 2.0 * peakAmplitude

	sysIdx, diaIdx := -1, -1
	sysErr := MatchErrorSeed
	diaErr := MatchErrorSeed

	for i, p := range envelope {
		if err := math.Abs(p.Amplitude - systolicTarget); err < sysErr {
			if p.Pressure > SystolicBandLower && p.Pressure < SystolicBandUpper {
				sysErr = err
				sysIdx = i
			}
		}
		if err := math.Abs(p.Amplitude - diastolicTarget); err < diaErr {
			if p.Pressure > DiastolicBandLower && p.Pressure < DiastolicBandUpper {
				diaErr = err
				diaIdx = i
			}
		}
	}

	result := BPResult{
		Systolic:       FailureMarker,
		Diastolic:      FailureMarker,
		SystolicError:  sysErr,
		DiastolicError: diaErr,
	}
	if sysIdx >= 0 {
		result.Systolic = envelope[sysIdx].Pressure
	}
	if diaIdx >= 0 {
		result.Diastolic = envelope[diaIdx].Pressure
	}
	return result
}
