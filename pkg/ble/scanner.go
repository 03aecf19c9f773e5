// Package ble drives a BLE-to-UART bridge dongle that reports advertisements
// as text lines:
//
//	host:   SCAN <window-ms>
//	bridge: ADV <address> <rssi> [name...]
//	bridge: END
//
// The host may send STOP to cut a pass short; the bridge still answers END.
// A pass the host abandoned before END is drained before the next SCAN.
package ble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/wardwatch/pkg/device"
	"github.com/urmzd/wardwatch/pkg/serialport"
)

// DefaultWindow is the radio scan timeout of one pass.
const DefaultWindow = 500 * time.Millisecond

const (
	readTimeout = 100 * time.Millisecond
	// grace added to the window before the host gives up waiting for END.
	endGrace    = 500 * time.Millisecond
	maxLineSize = 512
)

// Scanner implements device.Scanner over a bridge connection.
type Scanner struct {
	rw      io.ReadWriter
	closer  func() error
	window  time.Duration
	grace   time.Duration
	pending []byte

	// overlong is set while the rest of an oversized line is discarded.
	overlong bool
	// unterminated is set while the bridge may still send lines of an
	// abandoned pass.
	unterminated bool
}

// NewScanner creates a scanner over an open bridge connection.
func NewScanner(rw io.ReadWriter, window time.Duration) *Scanner {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Scanner{rw: rw, window: window, grace: endGrace}
}

// Open opens the bridge dongle at portPath.
func Open(portPath string, window time.Duration) (*Scanner, error) {
	port, err := serialport.Open(portPath, readTimeout)
	if err != nil {
		return nil, err
	}
	s := NewScanner(port, window)
	s.closer = port.Close
	return s, nil
}

// Scan runs one pass and hands every advertisement to visit in arrival order.
// Malformed lines are skipped. The pass is bounded by the scan window.
func (s *Scanner) Scan(ctx context.Context, visit func(device.Sighting) bool) error {
	if s.unterminated {
		if err := s.drain(ctx); err != nil {
			return fmt.Errorf("drain previous pass: %w", err)
		}
	}

	if _, err := fmt.Fprintf(s.rw, "SCAN %d\n", s.window.Milliseconds()); err != nil {
		return fmt.Errorf("start scan: %w", err)
	}
	s.unterminated = true

	deadline := time.Now().Add(s.window + s.grace)
	stopped := false

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Now().After(deadline) {
			log.Debug().Msg("BLE scan pass ended without END")
			return nil
		}

		line, err := s.readLine()
		if errors.Is(err, device.ErrTimeout) {
			continue
		}
		if errors.Is(err, device.ErrFrame) {
			log.Debug().Err(err).Msg("Skipping bridge line")
			continue
		}
		if err != nil {
			return fmt.Errorf("read scan result: %w", err)
		}

		if line == "END" {
			s.unterminated = false
			return nil
		}
		if stopped {
			continue
		}

		sighting, err := ParseAdvertisement(line)
		if err != nil {
			log.Debug().Err(err).Str("line", line).Msg("Skipping bridge line")
			continue
		}

		if !visit(sighting) {
			stopped = true
			if _, err := io.WriteString(s.rw, "STOP\n"); err != nil {
				return fmt.Errorf("stop scan: %w", err)
			}
		}
	}
}

// drain discards the remains of an abandoned pass up to its END, or until
// the bridge goes quiet.
func (s *Scanner) drain(ctx context.Context) error {
	deadline := time.Now().Add(s.grace)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.readLine()
		switch {
		case errors.Is(err, device.ErrTimeout):
			s.reset()
			return nil
		case errors.Is(err, device.ErrFrame):
			continue
		case err != nil:
			return err
		case line == "END":
			s.reset()
			return nil
		}
	}
	s.reset()
	return nil
}

func (s *Scanner) reset() {
	s.pending = s.pending[:0]
	s.overlong = false
	s.unterminated = false
}

// readLine returns the next complete line without its terminator. A line
// longer than maxLineSize yields ErrFrame once and is then skipped up to its
// terminator.
func (s *Scanner) readLine() (string, error) {
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := s.pending[:i]
			s.pending = s.pending[i+1:]
			if s.overlong {
				s.overlong = false
				continue
			}
			return strings.TrimSpace(string(line)), nil
		}
		if s.overlong {
			s.pending = s.pending[:0]
		} else if len(s.pending) > maxLineSize {
			s.pending = s.pending[:0]
			s.overlong = true
			return "", fmt.Errorf("%w: line too long", device.ErrFrame)
		}

		buf := make([]byte, 128)
		n, err := s.rw.Read(buf)
		s.pending = append(s.pending, buf[:n]...)
		if err != nil {
			return "", err
		}
	}
}

// ParseAdvertisement parses an "ADV <address> <rssi> [name...]" line.
func ParseAdvertisement(line string) (device.Sighting, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "ADV" {
		return device.Sighting{}, fmt.Errorf("%w: not an advertisement", device.ErrFrame)
	}

	addr, err := device.ParseAddress(fields[1])
	if err != nil {
		return device.Sighting{}, err
	}

	rssi, err := strconv.Atoi(fields[2])
	if err != nil {
		return device.Sighting{}, fmt.Errorf("%w: rssi %q", device.ErrFrame, fields[2])
	}

	return device.Sighting{
		Address: addr,
		RSSI:    rssi,
		Name:    strings.Join(fields[3:], " "),
	}, nil
}

func (s *Scanner) IsConnected() bool {
	return s.rw != nil
}

func (s *Scanner) Close() {
	if s.closer == nil {
		return
	}
	if err := s.closer(); err != nil {
		log.Warn().Err(err).Msg("Failed to close BLE bridge")
	}
}
