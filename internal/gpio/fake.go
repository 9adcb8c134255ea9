package gpio

// FakePanel is a test double recording LED writes and returning scripted
// button states.
type FakePanel struct {
	// ButtonStates contains scripted button values to return.
	// Each call to ButtonPressed consumes the next value; the last value
	// repeats once exhausted.
	ButtonStates []bool

	// index tracks current position in ButtonStates
	index int

	// Latest LED states written.
	CaptureActive  bool
	MaxPressure    bool
	ReleaseWarning bool

	// WarningWrites records every SetReleaseWarning value, in order.
	WarningWrites []bool

	// Closed tracks if Close was called
	Closed bool

	// ButtonError, if set, will be returned by ButtonPressed
	ButtonError error
}

// NewFakePanel creates a FakePanel with the given scripted button states.
func NewFakePanel(buttonStates []bool) *FakePanel {
	return &FakePanel{ButtonStates: buttonStates}
}

// ButtonPressed returns the next scripted button state.
func (f *FakePanel) ButtonPressed() (bool, error) {
	if f.ButtonError != nil {
		return false, f.ButtonError
	}
	if len(f.ButtonStates) == 0 {
		return false, nil
	}
	v := f.ButtonStates[f.index]
	if f.index < len(f.ButtonStates)-1 {
		f.index++
	}
	return v, nil
}

// SetCaptureActive records the capture LED state.
func (f *FakePanel) SetCaptureActive(on bool) error {
	f.CaptureActive = on
	return nil
}

// SetMaxPressure records the max-pressure LED state.
func (f *FakePanel) SetMaxPressure(on bool) error {
	f.MaxPressure = on
	return nil
}

// SetReleaseWarning records the warning LED state.
func (f *FakePanel) SetReleaseWarning(on bool) error {
	f.ReleaseWarning = on
	f.WarningWrites = append(f.WarningWrites, on)
	return nil
}

// Close marks the panel as closed.
func (f *FakePanel) Close() error {
	f.Closed = true
	return nil
}
