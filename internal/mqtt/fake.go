package mqtt

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// Measurements contains all measurement events that were published.
	Measurements []MeasurementEvent

	// MeasurementPayloads contains the JSON payloads for measurements.
	MeasurementPayloads [][]byte

	// Warnings contains all warning events that were published.
	Warnings []WarningEvent

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by all publish methods.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishMeasurement records the measurement event.
func (f *FakePublisher) PublishMeasurement(event MeasurementEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Measurements = append(f.Measurements, event)

	payload, err := FormatMeasurementPayload(event)
	if err != nil {
		return err
	}
	f.MeasurementPayloads = append(f.MeasurementPayloads, payload)

	return nil
}

// PublishWarning records the warning event.
func (f *FakePublisher) PublishWarning(event WarningEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Warnings = append(f.Warnings, event)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Measurements = nil
	f.MeasurementPayloads = nil
	f.Warnings = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.Connected = false
}
