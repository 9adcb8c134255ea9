//go:build linux

package sensor

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// MPR command sequences: a 3-byte conversion trigger, then after the
// conversion delay a 4-byte read returning a status byte and the 24-bit
// pressure count.
var (
	cmdTrigger = []byte{0xAA, 0x00, 0x00}
	cmdRead    = []byte{0xF0, 0x00, 0x00, 0x00}
)

// statusReady is the status byte for a powered sensor with valid data.
const statusReady = 0x40

// conversionDelay is the time the sensor needs to sample and convert.
const conversionDelay = 10 * time.Millisecond

// RealDevice reads the MPR sensor over a Linux SPI bus.
type RealDevice struct {
	port spi.PortCloser
	conn spi.Conn
}

// NewRealDevice opens the named SPI port (e.g. "/dev/spidev0.0", or "" for
// the first available) and configures it for the MPR sensor.
func NewRealDevice(port string) (*RealDevice, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", port, err)
	}

	// 100 kHz, mode 1, 8-bit words per the sensor datasheet.
	conn, err := p.Connect(100*physic.KiloHertz, spi.Mode1, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}

	return &RealDevice{port: p, conn: conn}, nil
}

// ReadRaw triggers a conversion, waits for it, and reads the 24-bit count.
func (d *RealDevice) ReadRaw(ctx context.Context) (int64, error) {
	rx := make([]byte, len(cmdTrigger))
	if err := d.conn.Tx(cmdTrigger, rx); err != nil {
		return 0, fmt.Errorf("%w: trigger conversion: %v", ErrUnavailable, err)
	}

	select {
	case <-time.After(conversionDelay):
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	rx = make([]byte, len(cmdRead))
	if err := d.conn.Tx(cmdRead, rx); err != nil {
		return 0, fmt.Errorf("%w: read conversion: %v", ErrUnavailable, err)
	}
	if rx[0] != statusReady {
		return 0, fmt.Errorf("%w: status byte 0x%02x", ErrUnavailable, rx[0])
	}

	return int64(rx[1])<<16 | int64(rx[2])<<8 | int64(rx[3]), nil
}

// Close releases the SPI port.
func (d *RealDevice) Close() error {
	return d.port.Close()
}
