package imu

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/wardwatch/pkg/device"
	"github.com/urmzd/wardwatch/pkg/serialport"
)

// MPU6050 registers and scale factors.
const (
	MPU6050Address = 0x68

	regPwrMgmt1   = 0x6B
	regAccelXoutH = 0x3B

	// Accel X/Y/Z (6 bytes) followed by TEMP_OUT (2 bytes).
	burstLen = 8

	// Default full scale of ±2g.
	lsbPerG = 16384.0

	wakeDelay  = 100 * time.Millisecond
	busTimeout = 250 * time.Millisecond
)

// RegisterBus is the register-level access the sensor needs.
type RegisterBus interface {
	WriteRegister(addr, reg, value byte) error
	ReadRegisters(addr, reg byte, n int) ([]byte, error)
}

// MPU6050 implements device.MotionSource for an InvenSense MPU6050.
type MPU6050 struct {
	bus       RegisterBus
	closer    func() error
	connected bool
}

// NewMPU6050 creates a sensor on an already open bus. Call Init before Read.
func NewMPU6050(bus RegisterBus) *MPU6050 {
	return &MPU6050{bus: bus}
}

// Open opens the serial bridge at portPath and wakes the sensor.
func Open(portPath string) (*MPU6050, error) {
	port, err := serialport.Open(portPath, busTimeout)
	if err != nil {
		return nil, err
	}

	m := NewMPU6050(NewBridge(port))
	m.closer = port.Close
	if err := m.Init(); err != nil {
		_ = port.Close()
		return nil, err
	}
	return m, nil
}

// Init clears the sleep bit so the sensor starts sampling.
func (m *MPU6050) Init() error {
	if err := m.bus.WriteRegister(MPU6050Address, regPwrMgmt1, 0x00); err != nil {
		return fmt.Errorf("wake MPU6050: %w", err)
	}
	time.Sleep(wakeDelay)
	m.connected = true
	log.Info().Msg("MPU6050 initialized")
	return nil
}

// Read returns the current acceleration and die temperature.
func (m *MPU6050) Read(ctx context.Context) (device.MotionSample, error) {
	if !m.connected {
		return device.MotionSample{}, device.ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return device.MotionSample{}, err
	}

	raw, err := m.bus.ReadRegisters(MPU6050Address, regAccelXoutH, burstLen)
	if err != nil {
		return device.MotionSample{}, fmt.Errorf("read MPU6050: %w", err)
	}

	return DecodeSample(raw)
}

// DecodeSample converts the 8-byte ACCEL_XOUT_H..TEMP_OUT_L burst.
func DecodeSample(raw []byte) (device.MotionSample, error) {
	if len(raw) != burstLen {
		return device.MotionSample{}, fmt.Errorf("%w: sample has %d bytes", device.ErrFrame, len(raw))
	}

	word := func(i int) int16 {
		return int16(binary.BigEndian.Uint16(raw[i : i+2]))
	}

	return device.MotionSample{
		Accel: device.Vector{
			X: AccelG(word(0)),
			Y: AccelG(word(2)),
			Z: AccelG(word(4)),
		},
		TemperatureC: TemperatureC(word(6)),
	}, nil
}

// AccelG converts a raw accelerometer count to g.
func AccelG(raw int16) float64 {
	return float64(raw) / lsbPerG
}

// TemperatureC converts a raw TEMP_OUT value to degrees Celsius.
func TemperatureC(raw int16) float64 {
	return float64(raw)/340.0 + 36.53
}

func (m *MPU6050) IsConnected() bool {
	return m.connected
}

func (m *MPU6050) Close() {
	m.connected = false
	if m.closer == nil {
		return
	}
	if err := m.closer(); err != nil {
		log.Warn().Err(err).Msg("Failed to close IMU port")
	}
}
