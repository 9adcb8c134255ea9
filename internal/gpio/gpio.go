// Package gpio provides the front-panel I/O of the monitor: the capture
// start button and the indicator LEDs, with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Panel is the user-facing button and LED set.
type Panel interface {
	// ButtonPressed returns whether the capture start button is held.
	ButtonPressed() (bool, error)

	// SetCaptureActive drives the capture-in-progress LED.
	SetCaptureActive(on bool) error

	// SetMaxPressure drives the release-pressure LED, lit when the cuff
	// is over the pressure limit.
	SetMaxPressure(on bool) error

	// SetReleaseWarning drives the deflation-too-fast LED.
	SetReleaseWarning(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// Pin defaults (BCM numbering)
const (
	DefaultPinButton     = 17 // capture start button
	DefaultPinCaptureLED = 22 // capture active
	DefaultPinMaxLED     = 23 // maximum pressure reached
	DefaultPinWarnLED    = 24 // release rate warning
)
