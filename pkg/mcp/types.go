package mcp

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=healthy or degraded"`
	Motion    string `json:"motion" jsonschema:"description=Accelerometer connection status"`
	Scanner   string `json:"scanner" jsonschema:"description=BLE scanner connection status"`
	Transport string `json:"transport" jsonschema:"description=MQTT broker connection status"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- Status Tool ---

// GetStatusOutput is the output for the get_status tool
type GetStatusOutput struct {
	Paired            string  `json:"paired,omitempty" jsonschema:"description=Paired device address, empty when unpaired"`
	PairedName        string  `json:"paired_name,omitempty" jsonschema:"description=Advertised name of the paired device"`
	Learning          bool    `json:"learning" jsonschema:"description=Whether learning mode is on"`
	Presence          string  `json:"presence" jsonschema:"description=here, not here or unknown"`
	LastSeenMs        int64   `json:"last_seen_ms" jsonschema:"description=Monitor uptime at the last sighting"`
	LastRSSI          int     `json:"last_rssi" jsonschema:"description=Signal strength of the last sighting"`
	Orientation       string  `json:"orientation" jsonschema:"description=standing or lying down"`
	Department        string  `json:"department" jsonschema:"description=Current department"`
	TemperatureC      float64 `json:"temperature_c" jsonschema:"description=Sensor temperature in Celsius"`
	BroadcastLocation bool    `json:"broadcast_location" jsonschema:"description=Whether location events follow status changes"`
}

// --- Command Tools ---

// SendCommandInput is the input for the send_command tool
type SendCommandInput struct {
	Command string `json:"command" jsonschema:"required,description=Command text"`
}

// CommandOutput is the output for the send_command and toggle_commissioning tools
type CommandOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the monitor accepted the command"`
	Code    int    `json:"code" jsonschema:"description=Result code (-1 rejected, 0 off, 1 on, 2 fall, 3/4/8+ department, 5 info, 6 learning on, 7 learning off)"`
	Command string `json:"command" jsonschema:"description=Normalized command"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Beacon Tools ---

// BeaconOutput is one department beacon
type BeaconOutput struct {
	Key        string `json:"key" jsonschema:"description=Command that announces the department"`
	Address    string `json:"address" jsonschema:"description=Beacon BLE address"`
	Department string `json:"department" jsonschema:"description=Department name"`
	Code       int    `json:"code" jsonschema:"description=Result code of the beacon's command"`
}

// ListBeaconsOutput is the output for the list_beacons tool
type ListBeaconsOutput struct {
	Beacons []BeaconOutput `json:"beacons"`
	Count   int            `json:"count"`
}

// SaveBeaconInput is the input for the save_beacon tool
type SaveBeaconInput struct {
	Key        string `json:"key" jsonschema:"required,description=Beacon key, a single word"`
	Address    string `json:"address" jsonschema:"required,description=Beacon BLE address"`
	Department string `json:"department" jsonschema:"required,description=Department name"`
}

// DeleteBeaconOutput is the output for the delete_beacon tool
type DeleteBeaconOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
