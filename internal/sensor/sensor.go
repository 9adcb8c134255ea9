// Package sensor provides access to the MPR cuff pressure sensor.
// The real implementation talks SPI via periph.io on Linux.
// The fake implementation allows testing without hardware.
package sensor

import (
	"context"
	"errors"
)

// 24-bit output range of the MPR sensor (transfer function B: 2.5%–22.5% of
// full scale) and the pressure range it maps to.
const (
	OutputMax   = 3774873.0 // counts at PressureMax
	OutputMin   = 419430.0  // counts at PressureMin
	PressureMax = 300.0     // mmHg
	PressureMin = 0.0       // mmHg
)

// Scale converts sensor counts to mmHg.
const Scale = (PressureMax - PressureMin) / (OutputMax - OutputMin)

// ErrUnavailable indicates the sensor could not produce a reading.
// Session-fatal: the measurement aborts with no partial result.
var ErrUnavailable = errors.New("sensor unavailable")

// Device produces raw 24-bit sensor readings.
type Device interface {
	// ReadRaw triggers one conversion and returns the 24-bit count.
	ReadRaw(ctx context.Context) (int64, error)

	// Close releases the bus.
	Close() error
}

// Reader converts raw device output to calibrated mmHg readings using the
// zero offset established by Calibrate.
type Reader struct {
	dev    Device
	offset int64
}

// NewReader wraps a device with the given calibration offset.
func NewReader(dev Device, offset int64) *Reader {
	return &Reader{dev: dev, offset: offset}
}

// Read returns one calibrated pressure reading in mmHg.
func (r *Reader) Read(ctx context.Context) (float64, error) {
	raw, err := r.dev.ReadRaw(ctx)
	if err != nil {
		return 0, err
	}
	return Scale * float64(raw-r.offset), nil
}

// Offset returns the calibration offset in sensor counts.
func (r *Reader) Offset() int64 {
	return r.offset
}
