package serialport

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/wardwatch/pkg/device"
	"go.bug.st/serial"
)

// Port wraps a serial connection to a USB hardware bridge.
type Port struct {
	port serial.Port
	mu   sync.Mutex
}

// Open opens the serial port at 115200 baud, 8N1, with a bounded read timeout.
func Open(portPath string, timeout time.Duration) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portPath, err)
	}

	if err := port.SetReadTimeout(timeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	log.Info().Str("port", portPath).Msg("Serial port opened")

	return &Port{port: port}, nil
}

// Write sends raw bytes to the serial port.
func (s *Port) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Write(data)
}

// Read reads raw bytes from the serial port. An expired read timeout is
// reported as device.ErrTimeout instead of an empty read.
func (s *Port) Read(buf []byte) (int, error) {
	n, err := s.port.Read(buf)
	if n == 0 && err == nil {
		return 0, device.ErrTimeout
	}
	return n, err
}

// Close closes the serial port.
func (s *Port) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}
