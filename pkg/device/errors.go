package device

import "errors"

var (
	// ErrTimeout indicates a bus or radio operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrNotConnected indicates the hardware source is not connected
	ErrNotConnected = errors.New("source not connected")

	// ErrInvalidAddress indicates a malformed identity address
	ErrInvalidAddress = errors.New("invalid address")

	// ErrFrame indicates a corrupt frame from a hardware bridge
	ErrFrame = errors.New("invalid frame")
)
