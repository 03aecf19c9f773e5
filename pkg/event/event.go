// Package event defines the outbound payloads published by the monitor.
// Field order follows the wire format consumed by the ward dashboard.
package event

import (
	"fmt"
	"strconv"
)

// Event names, also used as the last MQTT topic segment.
const (
	NameStatus         = "status"
	NameFalling        = "falling"
	NameDepartment     = "department"
	NamePeriodicStatus = "periodic_status"
	NameLocation       = "location"
)

// Event is an outbound payload.
type Event interface {
	// Name returns the event name, e.g. "status"
	Name() string
}

// Temperature renders with two decimals.
type Temperature float64

func (t Temperature) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(t), 'f', 2, 64)), nil
}

// Coordinate renders with six decimals.
type Coordinate float64

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(c), 'f', 6, 64)), nil
}

// MapsLink returns the map URL for a position.
func MapsLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", lat, lon)
}

// Status is published whenever presence changes.
type Status struct {
	DeviceName  string      `json:"name,omitempty"`
	Address     string      `json:"address"`
	LastSeen    int64       `json:"lastSeen"`
	LastRSSI    int         `json:"lastRSSI"`
	Status      string      `json:"status"`
	Location    string      `json:"location"`
	Department  string      `json:"department"`
	Orientation string      `json:"orientation"`
	Temperature Temperature `json:"temperature"`
}

func (Status) Name() string { return NameStatus }

// Falling is the fall alert.
type Falling struct {
	Alert       string      `json:"alert"`
	DeviceName  string      `json:"name,omitempty"`
	Address     string      `json:"address"`
	Status      string      `json:"status"`
	Location    string      `json:"location"`
	Department  string      `json:"department"`
	Orientation string      `json:"orientation"`
	Temperature Temperature `json:"temperature"`
}

func (Falling) Name() string { return NameFalling }

// AlertFalling is the fixed alert value of a Falling event.
const AlertFalling = "falling"

// Department announces the ward zone the tag was located in.
type Department struct {
	Department string `json:"department"`
	RSSI       int    `json:"rssi"`
	Timestamp  int64  `json:"timestamp"`
}

func (Department) Name() string { return NameDepartment }

// PeriodicStatus is the five-minute heartbeat.
type PeriodicStatus struct {
	Orientation string      `json:"orientation"`
	Department  string      `json:"department"`
	Temperature Temperature `json:"temperature"`
	Timestamp   int64       `json:"timestamp"`
}

func (PeriodicStatus) Name() string { return NamePeriodicStatus }

// Location is sent after a status change when location broadcast is enabled.
type Location struct {
	DeviceName  string      `json:"name,omitempty"`
	Lat         Coordinate  `json:"lat"`
	Lon         Coordinate  `json:"lon"`
	RSSI        int         `json:"rssi"`
	Link        string      `json:"link"`
	Department  string      `json:"department"`
	Orientation string      `json:"orientation"`
	Temperature Temperature `json:"temperature"`
}

func (Location) Name() string { return NameLocation }
