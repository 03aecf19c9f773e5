package monitor

// Z-axis thresholds in g. Samples between them hold the previous state.
const (
	StandingMinZ = 0.7
	LyingMaxZ    = 0.4
)

// Orientation is the body posture derived from the Z axis.
type Orientation int

const (
	LyingDown Orientation = iota
	Standing
)

var orientationNames = [...]string{
	LyingDown: "lying down",
	Standing:  "standing",
}

func (o Orientation) String() string {
	if int(o) < 0 || int(o) >= len(orientationNames) {
		return "unknown"
	}
	return orientationNames[o]
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Evaluate returns the posture for a Z-axis reading given the current one.
func (o Orientation) Evaluate(azG float64) Orientation {
	switch {
	case azG > StandingMinZ:
		return Standing
	case azG < LyingMaxZ && azG > -LyingMaxZ:
		return LyingDown
	default:
		return o
	}
}
