//go:build !linux

package sensor

import (
	"context"
	"errors"
)

// RealDevice is not available on non-Linux platforms.
type RealDevice struct{}

// NewRealDevice returns an error on non-Linux platforms.
func NewRealDevice(port string) (*RealDevice, error) {
	return nil, errors.New("sensor: not supported on this platform (requires Linux)")
}

// ReadRaw is not implemented on non-Linux platforms.
func (d *RealDevice) ReadRaw(ctx context.Context) (int64, error) {
	return 0, errors.New("sensor: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *RealDevice) Close() error {
	return nil
}
