package monitor

import (
	"strings"
	"time"

	"github.com/urmzd/wardwatch/pkg/device"
	"github.com/urmzd/wardwatch/pkg/event"
)

// DepartmentStaleAfter is the sighting gap after which an unchanged
// department is announced again.
const DepartmentStaleAfter = 60 * time.Second

// Department is a named ward zone marked by a beacon.
type Department string

// DepartmentNone means no beacon has been sighted yet.
const DepartmentNone Department = ""

// Beacon binds a fixed BLE address to a department. Key is the name of the
// remote command that forces an announcement (e.g. "arg1").
type Beacon struct {
	Key        string
	Address    device.Address
	Department Department
}

// DefaultBeacons returns the two stock ward beacons.
func DefaultBeacons() []Beacon {
	return []Beacon{
		{Key: "arg1", Address: device.MustParseAddress("AA:BB:CC:DD:EE:01"), Department: "Pediatric dept"},
		{Key: "arg2", Address: device.MustParseAddress("AA:BB:CC:DD:EE:02"), Department: "Cardiac dept"},
	}
}

// DepartmentLocator matches sightings against the beacon table.
type DepartmentLocator struct {
	Beacons       []Beacon
	Current       Department
	LastPublished Department
	LastSeenMs    map[Department]int64
	LastAnySeenMs int64
}

// NewDepartmentLocator creates a locator with no department.
func NewDepartmentLocator(beacons []Beacon) *DepartmentLocator {
	return &DepartmentLocator{
		Beacons:    beacons,
		LastSeenMs: make(map[Department]int64),
	}
}

// Lookup returns the beacon with the given address.
func (d *DepartmentLocator) Lookup(addr device.Address) (Beacon, bool) {
	for _, b := range d.Beacons {
		if b.Address == addr {
			return b, true
		}
	}
	return Beacon{}, false
}

// ByKey returns the beacon with the given command key and its position in
// the table.
func (d *DepartmentLocator) ByKey(key string) (Beacon, int, bool) {
	for i, b := range d.Beacons {
		if strings.EqualFold(b.Key, key) {
			return b, i, true
		}
	}
	return Beacon{}, -1, false
}

// SetBeacons replaces the beacon table. Sighting times of departments no
// longer in the table are forgotten.
func (d *DepartmentLocator) SetBeacons(beacons []Beacon) {
	d.Beacons = beacons
	keep := make(map[Department]bool, len(beacons))
	for _, b := range beacons {
		keep[b.Department] = true
	}
	for dep := range d.LastSeenMs {
		if !keep[dep] {
			delete(d.LastSeenMs, dep)
		}
	}
}

// OnSighting updates the locator. matched reports whether s came from a
// beacon; the returned event is non-nil when the department must be announced.
func (d *DepartmentLocator) OnSighting(s device.Sighting, nowMs int64) (*event.Department, bool) {
	b, ok := d.Lookup(s.Address)
	if !ok {
		return nil, false
	}

	d.Current = b.Department

	var ev *event.Department
	lastSeen, seen := d.LastSeenMs[b.Department]
	stale := !seen || nowMs-lastSeen > DepartmentStaleAfter.Milliseconds()
	if d.Current != d.LastPublished || stale {
		ev = &event.Department{
			Department: string(b.Department),
			RSSI:       s.RSSI,
			Timestamp:  nowMs,
		}
		d.LastPublished = d.Current
	}

	d.LastSeenMs[b.Department] = nowMs
	d.LastAnySeenMs = nowMs

	return ev, true
}

// Force announces b unconditionally with rssi 0. Sighting times are untouched.
func (d *DepartmentLocator) Force(b Beacon, nowMs int64) event.Department {
	d.Current = b.Department
	d.LastPublished = b.Department
	return event.Department{
		Department: string(b.Department),
		RSSI:       0,
		Timestamp:  nowMs,
	}
}
