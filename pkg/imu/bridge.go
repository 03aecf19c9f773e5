package imu

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/urmzd/wardwatch/pkg/device"
)

// Frame bytes of the register bridge protocol. A request is
//
//	sync(0xA5) op addr reg arg checksum
//
// where op is 'R' (arg = byte count) or 'W' (arg = value). The reply is
//
//	sync(0x5A) status count data... checksum
//
// Checksums XOR every byte after the sync byte.
const (
	requestSync  = 0xA5
	responseSync = 0x5A
	opRead       = 'R'
	opWrite      = 'W'

	// maxResync bounds how many stray bytes are skipped looking for a reply.
	maxResync = 64
)

// ErrNACK indicates the sensor did not acknowledge on the I2C bus.
var ErrNACK = errors.New("i2c transfer not acknowledged")

// Bridge speaks the register protocol of the USB-to-I2C bridge.
type Bridge struct {
	rw io.ReadWriter
	mu sync.Mutex
}

// NewBridge creates a bridge over an open port.
func NewBridge(rw io.ReadWriter) *Bridge {
	return &Bridge{rw: rw}
}

// WriteRegister writes one register of the device at addr.
func (b *Bridge) WriteRegister(addr, reg, value byte) error {
	_, err := b.roundTrip(opWrite, addr, reg, value)
	return err
}

// ReadRegisters reads n consecutive registers starting at reg.
func (b *Bridge) ReadRegisters(addr, reg byte, n int) ([]byte, error) {
	if n <= 0 || n > 255 {
		return nil, fmt.Errorf("read %d registers: count out of range", n)
	}
	data, err := b.roundTrip(opRead, addr, reg, byte(n))
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", device.ErrFrame, n, len(data))
	}
	return data, nil
}

func (b *Bridge) roundTrip(op, addr, reg, arg byte) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	req := []byte{requestSync, op, addr, reg, arg, 0}
	req[5] = checksum(req[1:5])
	if _, err := b.rw.Write(req); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	if err := b.resync(); err != nil {
		return nil, err
	}

	header := make([]byte, 2)
	if _, err := io.ReadFull(b.rw, header); err != nil {
		return nil, fmt.Errorf("read reply header: %w", err)
	}
	status, count := header[0], int(header[1])

	body := make([]byte, count+1)
	if _, err := io.ReadFull(b.rw, body); err != nil {
		return nil, fmt.Errorf("read reply body: %w", err)
	}

	sum := checksum(header) ^ checksum(body[:count])
	if sum != body[count] {
		return nil, fmt.Errorf("%w: checksum %02x, expected %02x", device.ErrFrame, body[count], sum)
	}
	if status != 0 {
		return nil, fmt.Errorf("%w: status %d", ErrNACK, status)
	}

	return body[:count], nil
}

// resync consumes bytes until the reply sync byte.
func (b *Bridge) resync() error {
	buf := make([]byte, 1)
	for i := 0; i < maxResync; i++ {
		if _, err := io.ReadFull(b.rw, buf); err != nil {
			return fmt.Errorf("read reply sync: %w", err)
		}
		if buf[0] == responseSync {
			return nil
		}
	}
	return fmt.Errorf("%w: no reply sync", device.ErrFrame)
}

func checksum(data []byte) byte {
	var sum byte
	for _, c := range data {
		sum ^= c
	}
	return sum
}
