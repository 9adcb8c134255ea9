package sensor

import (
	"context"
	"errors"
)

// FakeDevice is a test double that returns scripted raw counts.
type FakeDevice struct {
	// Counts contains scripted raw 24-bit values to return.
	// Each call to ReadRaw consumes the next value.
	Counts []int64

	// index tracks current position in Counts
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by ReadRaw
	ReadError error
}

// NewFakeDevice creates a FakeDevice with the given raw counts.
func NewFakeDevice(counts []int64) *FakeDevice {
	return &FakeDevice{Counts: counts}
}

// ReadRaw returns the next scripted count.
// If counts are exhausted, returns the last count repeatedly.
func (f *FakeDevice) ReadRaw(ctx context.Context) (int64, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}

	if len(f.Counts) == 0 {
		return 0, errors.New("no counts configured")
	}

	raw := f.Counts[f.index]
	if f.index < len(f.Counts)-1 {
		f.index++
	}

	return raw, nil
}

// Close marks the device as closed.
func (f *FakeDevice) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the device to the beginning of counts.
func (f *FakeDevice) Reset() {
	f.index = 0
	f.Closed = false
}
