//go:build !linux

package gpio

import "errors"

// RealPanel is not available on non-Linux platforms.
type RealPanel struct{}

// NewRealPanel returns an error on non-Linux platforms.
func NewRealPanel(pinButton, pinCapture, pinMax, pinWarn int) (*RealPanel, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// ButtonPressed is not implemented on non-Linux platforms.
func (p *RealPanel) ButtonPressed() (bool, error) {
	return false, errors.New("gpio: not supported")
}

// SetCaptureActive is not implemented on non-Linux platforms.
func (p *RealPanel) SetCaptureActive(on bool) error {
	return errors.New("gpio: not supported")
}

// SetMaxPressure is not implemented on non-Linux platforms.
func (p *RealPanel) SetMaxPressure(on bool) error {
	return errors.New("gpio: not supported")
}

// SetReleaseWarning is not implemented on non-Linux platforms.
func (p *RealPanel) SetReleaseWarning(on bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (p *RealPanel) Close() error {
	return nil
}
