package imu

import (
	"bytes"
	"errors"
	"testing"

	"github.com/urmzd/wardwatch/pkg/device"
)

// loopback records requests and replays a canned reply stream.
type loopback struct {
	written bytes.Buffer
	reply   *bytes.Reader
}

func newLoopback(reply []byte) *loopback {
	return &loopback{reply: bytes.NewReader(reply)}
}

func (l *loopback) Write(p []byte) (int, error) { return l.written.Write(p) }
func (l *loopback) Read(p []byte) (int, error)  { return l.reply.Read(p) }

func reply(status byte, data ...byte) []byte {
	frame := append([]byte{responseSync, status, byte(len(data))}, data...)
	return append(frame, checksum(frame[1:]))
}

func TestBridge_ReadRegisters(t *testing.T) {
	lb := newLoopback(reply(0, 0x01, 0x02))
	b := NewBridge(lb)

	data, err := b.ReadRegisters(0x68, 0x3B, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte{0x01, 0x02}) {
		t.Errorf("unexpected data %x", data)
	}

	req := lb.written.Bytes()
	want := []byte{requestSync, opRead, 0x68, 0x3B, 2}
	want = append(want, checksum(want[1:]))
	if !bytes.Equal(req, want) {
		t.Errorf("request = %x, want %x", req, want)
	}
}

func TestBridge_SkipsNoiseBeforeSync(t *testing.T) {
	stream := append([]byte{0x00, 0xFF, 0x13}, reply(0)...)
	b := NewBridge(newLoopback(stream))

	if err := b.WriteRegister(0x68, 0x6B, 0x00); err != nil {
		t.Errorf("expected write to succeed, got %v", err)
	}
}

func TestBridge_NACK(t *testing.T) {
	b := NewBridge(newLoopback(reply(2)))

	err := b.WriteRegister(0x68, 0x6B, 0x00)
	if !errors.Is(err, ErrNACK) {
		t.Errorf("expected ErrNACK, got %v", err)
	}
}

func TestBridge_BadChecksum(t *testing.T) {
	frame := reply(0, 0xAA)
	frame[len(frame)-1] ^= 0xFF
	b := NewBridge(newLoopback(frame))

	_, err := b.ReadRegisters(0x68, 0x3B, 1)
	if !errors.Is(err, device.ErrFrame) {
		t.Errorf("expected ErrFrame, got %v", err)
	}
}

func TestBridge_ShortReply(t *testing.T) {
	b := NewBridge(newLoopback(reply(0, 0x01)))

	_, err := b.ReadRegisters(0x68, 0x3B, 2)
	if !errors.Is(err, device.ErrFrame) {
		t.Errorf("expected ErrFrame for short reply, got %v", err)
	}
}

func TestBridge_Timeout(t *testing.T) {
	b := NewBridge(newLoopback(nil))

	_, err := b.ReadRegisters(0x68, 0x3B, 2)
	if err == nil {
		t.Error("expected error when the bridge never answers")
	}
}
