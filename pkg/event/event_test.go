package event

import (
	"encoding/json"
	"testing"
)

func TestStatus_JSONFieldOrder(t *testing.T) {
	s := Status{
		Address:     "AA:BB:CC:DD:EE:FF",
		LastSeen:    1200,
		LastRSSI:    -61,
		Status:      "here",
		Location:    MapsLink(10.0266, 76.3119),
		Department:  "Cardiac dept",
		Orientation: "standing",
		Temperature: 36.5,
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"address":"AA:BB:CC:DD:EE:FF","lastSeen":1200,"lastRSSI":-61,"status":"here",` +
		`"location":"https://www.google.com/maps?q=10.026600,76.311900","department":"Cardiac dept",` +
		`"orientation":"standing","temperature":36.50}`
	if string(b) != want {
		t.Errorf("got  %s\nwant %s", b, want)
	}
}

func TestStatus_NameIncludedWhenKnown(t *testing.T) {
	b, err := json.Marshal(Status{DeviceName: "Pixel"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["name"] != "Pixel" {
		t.Errorf("expected name field, got %v", m["name"])
	}
}

func TestLocation_CoordinatePrecision(t *testing.T) {
	b, err := json.Marshal(Location{Lat: 10.0266, Lon: 76.3119, Temperature: 21.457})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"lat":10.026600,"lon":76.311900,"rssi":0,"link":"","department":"","orientation":"","temperature":21.46}`
	if string(b) != want {
		t.Errorf("got  %s\nwant %s", b, want)
	}
}

func TestNames(t *testing.T) {
	cases := map[string]Event{
		"status":          Status{},
		"falling":         Falling{},
		"department":      Department{},
		"periodic_status": PeriodicStatus{},
		"location":        Location{},
	}
	for want, ev := range cases {
		if ev.Name() != want {
			t.Errorf("expected %s, got %s", want, ev.Name())
		}
	}
}
