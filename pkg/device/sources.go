package device

import "context"

// MotionSource yields calibrated accelerometer and temperature readings.
// This abstraction lets the monitor run against different IMU hardware
// (MPU6050 over a serial bridge, simulated samples in tests).
type MotionSource interface {
	// Read returns one sample in g-units and degrees Celsius
	Read(ctx context.Context) (MotionSample, error)

	// IsConnected returns true if the sensor answered its initialization
	IsConnected() bool

	// Close releases the underlying bus
	Close()
}

// Scanner performs one BLE scan pass.
type Scanner interface {
	// Scan delivers sightings to visit until the pass ends or visit returns false.
	Scan(ctx context.Context, visit func(Sighting) bool) error

	// IsConnected returns true if the radio bridge is available
	IsConnected() bool

	// Close releases the radio bridge
	Close()
}
