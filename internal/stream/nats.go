// Package stream publishes the live cuff-pressure waveform over NATS for
// external plotting tools. Optional; the measurement pipeline does not
// depend on it.
package stream

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject carries smoothed pressure samples as float32-LE frames.
const DefaultSubject = "cuff.pressure"

// Connect opens a NATS connection tuned for a lossy realtime feed.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(
		url,
		nats.Name("cuff-monitor"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
}

// conn is the slice of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
}

// WavePublisher batches pressure samples and publishes them as float32
// little-endian frames.
type WavePublisher struct {
	nc      conn
	subject string
	batch   int
	buf     []byte
}

// NewWavePublisher publishes on subject, flushing every batch samples.
func NewWavePublisher(nc *nats.Conn, subject string, batch int) *WavePublisher {
	if batch < 1 {
		batch = 1
	}
	return &WavePublisher{
		nc:      nc,
		subject: subject,
		batch:   batch,
		buf:     make([]byte, 0, batch*4),
	}
}

// Push appends one sample, publishing the frame once the batch is full.
func (p *WavePublisher) Push(sample float64) error {
	p.buf = binary.LittleEndian.AppendUint32(p.buf, math.Float32bits(float32(sample)))
	if len(p.buf) < p.batch*4 {
		return nil
	}
	return p.Flush()
}

// Flush publishes any buffered samples immediately.
func (p *WavePublisher) Flush() error {
	if len(p.buf) == 0 {
		return nil
	}
	err := p.nc.Publish(p.subject, p.buf)
	p.buf = p.buf[:0]
	return err
}

// DecodeFrame unpacks a float32-LE frame back into samples. Used by
// subscribers and tests; trailing partial words are ignored.
func DecodeFrame(data []byte) []float32 {
	n := len(data) / 4
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples
}
