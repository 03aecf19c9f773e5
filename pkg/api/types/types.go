package types

import (
	"time"

	"github.com/urmzd/wardwatch/pkg/monitor"
)

// --- Request DTOs ---

// CommandRequest is the request body for POST /commands
type CommandRequest struct {
	Command string `json:"command" example:"on"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Motion    string    `json:"motion"`
	Scanner   string    `json:"scanner"`
	Transport string    `json:"transport"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse is returned from GET /status
type StatusResponse struct {
	State     monitor.Snapshot `json:"state"`
	Timestamp time.Time        `json:"timestamp"`
}

// CommandResponse is returned from POST /commands and POST /commissioning
type CommandResponse struct {
	Code      int       `json:"code"`
	Command   string    `json:"command"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCommandResponse converts a monitor result.
func NewCommandResponse(r monitor.Result) CommandResponse {
	return CommandResponse{
		Code:      r.Code,
		Command:   r.Command,
		Detail:    r.Detail,
		Timestamp: time.Now(),
	}
}

// --- Configuration DTOs ---

// BeaconRequest is the request body for PUT /beacons/{key}
type BeaconRequest struct {
	Address    string `json:"address" binding:"required" example:"AA:BB:CC:DD:EE:01"`
	Department string `json:"department" binding:"required" example:"Pediatric dept"`
}

// Beacon is a department beacon; its key is the command that announces it
type Beacon struct {
	Key        string `json:"key" example:"arg1"`
	Address    string `json:"address" example:"AA:BB:CC:DD:EE:01"`
	Department string `json:"department" example:"Pediatric dept"`
	// Code is the result code of the beacon's command
	Code int `json:"code" example:"3"`
}

// NewBeacon converts the i-th beacon of the table.
func NewBeacon(i int, b monitor.Beacon) Beacon {
	return Beacon{
		Key:        b.Key,
		Address:    b.Address.String(),
		Department: string(b.Department),
		Code:       monitor.DepartmentCode(i),
	}
}

// ListBeaconsResponse is returned from GET /beacons
type ListBeaconsResponse struct {
	Beacons []Beacon `json:"beacons"`
	Count   int      `json:"count"`
}

// Site is the position reported in events, used by GET and PUT /site
type Site struct {
	Latitude  *float64 `json:"latitude" binding:"required" example:"10.0266"`
	Longitude *float64 `json:"longitude" binding:"required" example:"76.3119"`
}

// BrokerRequest is the request body for PUT /broker
type BrokerRequest struct {
	URL         string `json:"url" binding:"required" example:"tcp://localhost:1883"`
	ClientID    string `json:"client_id,omitempty"`
	TopicPrefix string `json:"topic_prefix" binding:"required" example:"wardwatch"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
}

// BrokerResponse is returned from GET and PUT /broker. The password is never returned.
type BrokerResponse struct {
	URL         string `json:"url"`
	ClientID    string `json:"client_id"`
	TopicPrefix string `json:"topic_prefix"`
	Username    string `json:"username,omitempty"`
	HasPassword bool   `json:"has_password"`
}
