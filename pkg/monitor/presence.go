package monitor

import "time"

// NotHereAfter is how long the paired identity may go unseen before it is NotHere.
const NotHereAfter = 30 * time.Second

// PresenceState says whether the paired identity is co-located with the tag.
type PresenceState int

const (
	PresenceUnknown PresenceState = iota
	PresenceHere
	PresenceNotHere
)

var presenceNames = [...]string{
	PresenceUnknown: "unknown",
	PresenceHere:    "here",
	PresenceNotHere: "not here",
}

func (p PresenceState) String() string {
	if int(p) < 0 || int(p) >= len(presenceNames) {
		return presenceNames[PresenceUnknown]
	}
	return presenceNames[p]
}

func (p PresenceState) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// EvaluatePresence derives presence from the last sighting time. A zero
// lastSeenMs means the identity was never seen. changed reports whether
// the result differs from current.
func EvaluatePresence(nowMs, lastSeenMs int64, current PresenceState) (PresenceState, bool) {
	next := PresenceHere
	switch {
	case lastSeenMs == 0:
		next = PresenceUnknown
	case nowMs-lastSeenMs > NotHereAfter.Milliseconds():
		next = PresenceNotHere
	}
	return next, next != current
}
