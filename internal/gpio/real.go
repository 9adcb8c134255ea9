//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPanel drives the button and LEDs through the Linux GPIO character device.
type RealPanel struct {
	chip    *gpiocdev.Chip
	button  *gpiocdev.Line
	capture *gpiocdev.Line
	max     *gpiocdev.Line
	warn    *gpiocdev.Line
}

// NewRealPanel requests the button as input and the three LED lines as
// outputs, initially off.
func NewRealPanel(pinButton, pinCapture, pinMax, pinWarn int) (*RealPanel, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Pull the button down so an unwired pin reads released.
	button, err := chip.RequestLine(pinButton, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pinButton, err)
	}

	p := &RealPanel{chip: chip, button: button}
	for _, led := range []struct {
		pin  int
		name string
		dst  **gpiocdev.Line
	}{
		{pinCapture, "capture LED", &p.capture},
		{pinMax, "max-pressure LED", &p.max},
		{pinWarn, "warning LED", &p.warn},
	} {
		line, err := chip.RequestLine(led.pin, gpiocdev.AsOutput(0))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", led.name, led.pin, err)
		}
		*led.dst = line
	}

	return p, nil
}

// ButtonPressed returns whether the capture button reads active.
func (p *RealPanel) ButtonPressed() (bool, error) {
	v, err := p.button.Value()
	if err != nil {
		return false, fmt.Errorf("read button: %w", err)
	}
	return v != 0, nil
}

// SetCaptureActive drives the capture-in-progress LED.
func (p *RealPanel) SetCaptureActive(on bool) error {
	return setLED(p.capture, on, "capture LED")
}

// SetMaxPressure drives the release-pressure LED.
func (p *RealPanel) SetMaxPressure(on bool) error {
	return setLED(p.max, on, "max-pressure LED")
}

// SetReleaseWarning drives the deflation-too-fast LED.
func (p *RealPanel) SetReleaseWarning(on bool) error {
	return setLED(p.warn, on, "warning LED")
}

func setLED(line *gpiocdev.Line, on bool, name string) error {
	v := 0
	if on {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// Close turns the LEDs off and releases GPIO resources.
func (p *RealPanel) Close() error {
	var errs []error

	for _, line := range []*gpiocdev.Line{p.capture, p.max, p.warn} {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear led: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close led: %w", err))
		}
	}
	if p.button != nil {
		if err := p.button.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
