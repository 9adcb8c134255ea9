package sensor

import (
	"context"
	"fmt"
	"time"
)

// Calibration sampling: the mean of CalibrationSamples raw readings taken
// CalibrationInterval apart, before the cuff is pumped, becomes the zero
// reference for the whole session. Never recomputed mid-session.
const (
	CalibrationSamples  = 100
	CalibrationInterval = 10 * time.Millisecond
)

// Calibrate samples the unpressurised sensor and returns the integer mean of
// the raw counts as the zero offset. Any read failure aborts the calibration;
// a partial average is never returned.
func Calibrate(ctx context.Context, dev Device, samples int, interval time.Duration) (int64, error) {
	var sum int64
	for i := 0; i < samples; i++ {
		raw, err := dev.ReadRaw(ctx)
		if err != nil {
			return 0, fmt.Errorf("calibration sample %d: %w", i, err)
		}
		sum += raw

		if interval <= 0 || i == samples-1 {
			continue
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return sum / int64(samples), nil
}
