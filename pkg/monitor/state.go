package monitor

import "github.com/urmzd/wardwatch/pkg/device"

// State is all mutable monitor state. It is owned by the loop and passed by
// reference into every cycle; nothing else mutates it.
type State struct {
	Paired     device.Address
	PairedName string
	LastSeenMs int64
	LastRSSI   int
	Presence   PresenceState

	Fall         FallDetector
	Orientation  Orientation
	TemperatureC float64

	Department *DepartmentLocator
	Gate       PublishGate

	LastHeartbeatMs   int64
	BroadcastLocation bool
	Learning          bool
}

// NewState creates the startup state for a (possibly unset) paired identity.
func NewState(paired device.Address, name string, beacons []Beacon) *State {
	return &State{
		Paired:      paired,
		PairedName:  name,
		Presence:    PresenceUnknown,
		Orientation: LyingDown,
		Department:  NewDepartmentLocator(beacons),
	}
}

// Snapshot is a read-only copy of the state for the control surfaces.
type Snapshot struct {
	Paired                  string  `json:"paired"`
	PairedName              string  `json:"paired_name,omitempty"`
	Learning                bool    `json:"learning"`
	Presence                string  `json:"presence"`
	LastSeenMs              int64   `json:"last_seen_ms"`
	LastRSSI                int     `json:"last_rssi"`
	Orientation             string  `json:"orientation"`
	TemperatureC            float64 `json:"temperature_c"`
	Department              string  `json:"department"`
	LastPublishedDepartment string  `json:"last_published_department"`
	BroadcastLocation       bool    `json:"broadcast_location"`
	LastPublishMs           int64   `json:"last_publish_ms"`
	UptimeMs                int64   `json:"uptime_ms"`
	MotionConnected         bool    `json:"motion_connected"`
	ScannerConnected        bool    `json:"scanner_connected"`
	TransportConnected      bool    `json:"transport_connected"`
}

func (s *State) snapshot() Snapshot {
	paired := s.Paired.String()
	if s.Paired.IsUnset() {
		paired = ""
	}
	return Snapshot{
		Paired:                  paired,
		PairedName:              s.PairedName,
		Learning:                s.Learning,
		Presence:                s.Presence.String(),
		LastSeenMs:              s.LastSeenMs,
		LastRSSI:                s.LastRSSI,
		Orientation:             s.Orientation.String(),
		TemperatureC:            s.TemperatureC,
		Department:              string(s.Department.Current),
		LastPublishedDepartment: string(s.Department.LastPublished),
		BroadcastLocation:       s.BroadcastLocation,
		LastPublishMs:           s.Gate.LastPublish.Milliseconds(),
	}
}
