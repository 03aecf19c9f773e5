package monitor

import (
	"time"

	"github.com/urmzd/wardwatch/pkg/device"
)

const (
	// FallThreshold is the total acceleration below which the tag is in free fall.
	FallThreshold = 0.5

	// FallConfirmAfter is how long free fall must last without interruption.
	FallConfirmAfter = 300 * time.Millisecond

	// FallDebounce is the quiet window after a confirmed fall.
	FallDebounce = time.Second
)

// FallDecision is the outcome of one fall evaluation.
type FallDecision int

const (
	FallNone FallDecision = iota
	FallConfirmed
)

// FallDetector tracks one free-fall episode. Decisions are made per sample
// with no filtering: a single sample at or above the threshold discards the
// episode.
type FallDetector struct {
	Active       bool
	StartUs      int64
	QuietUntilUs int64
}

// Evaluate feeds one acceleration sample taken at nowUs.
func (f *FallDetector) Evaluate(nowUs int64, accel device.Vector) FallDecision {
	if accel.Magnitude() >= FallThreshold {
		f.Active = false
		return FallNone
	}

	if !f.Active {
		if nowUs < f.QuietUntilUs {
			return FallNone
		}
		f.Active = true
		f.StartUs = nowUs
		return FallNone
	}

	if nowUs-f.StartUs < FallConfirmAfter.Microseconds() {
		return FallNone
	}

	f.Active = false
	f.QuietUntilUs = nowUs + FallDebounce.Microseconds()
	return FallConfirmed
}

// Elapsed returns how long the active episode has lasted at nowUs.
func (f *FallDetector) Elapsed(nowUs int64) time.Duration {
	if !f.Active {
		return 0
	}
	return time.Duration(nowUs-f.StartUs) * time.Microsecond
}
