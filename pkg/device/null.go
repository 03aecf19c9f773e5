package device

import "context"

// NullMotionSource is used when the accelerometer failed to initialize.
// The monitor skips fall, orientation and temperature while it is in place.
type NullMotionSource struct{}

// NewNullMotionSource creates a new NullMotionSource.
func NewNullMotionSource() *NullMotionSource {
	return &NullMotionSource{}
}

func (s *NullMotionSource) Read(ctx context.Context) (MotionSample, error) {
	return MotionSample{}, ErrNotConnected
}

func (s *NullMotionSource) IsConnected() bool {
	return false
}

func (s *NullMotionSource) Close() {}

// NullScanner is used when no BLE bridge is attached. Every pass is empty.
type NullScanner struct{}

// NewNullScanner creates a new NullScanner.
func NewNullScanner() *NullScanner {
	return &NullScanner{}
}

func (s *NullScanner) Scan(ctx context.Context, visit func(Sighting) bool) error {
	return ErrNotConnected
}

func (s *NullScanner) IsConnected() bool {
	return false
}

func (s *NullScanner) Close() {}
