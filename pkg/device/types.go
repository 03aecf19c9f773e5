package device

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Address is a 6-byte BLE hardware address.
type Address [6]byte

// Unset is the all-ones address meaning "no paired identity".
var Unset = Address{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// ParseAddress parses a colon-separated hex address such as "AA:BB:CC:DD:EE:01".
func ParseAddress(s string) (Address, error) {
	var a Address
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != len(a) {
		return a, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	for i, p := range parts {
		if len(p) != 2 {
			return a, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		b, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return a, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		a[i] = byte(b)
	}
	return a, nil
}

// MustParseAddress is ParseAddress for constants; it panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsUnset reports whether a is the all-ones sentinel.
func (a Address) IsUnset() bool {
	return a == Unset
}

// String formats the address as upper-case colon-separated hex.
func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Sighting is one advertisement seen during a scan pass.
type Sighting struct {
	Address     Address `json:"address"`
	RSSI        int     `json:"rssi"`
	Name        string  `json:"name,omitempty"` // Advertised local name, if any
	TimestampMs int64   `json:"timestamp"`
}

// Vector is a 3-axis acceleration in g-units.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Magnitude returns the Euclidean norm of v.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// MotionSample is one reading from a MotionSource.
type MotionSample struct {
	Accel        Vector  `json:"accel"`
	TemperatureC float64 `json:"temperature_c"`
}
