package schema

import (
	"errors"
	"testing"

	"github.com/urmzd/wardwatch/pkg/event"
)

const siteLink = "https://www.google.com/maps?q=10.026600,76.311900"

func TestValidate_Command(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"text command", `{"command": "on"}`, false},
		{"beacon key", `{"command": "arg2"}`, false},
		{"missing command", `{}`, true},
		{"empty command", `{"command": ""}`, true},
		{"numeric command", `{"command": 1}`, true},
		{"extra field", `{"command": "on", "force": true}`, true},
		{"not json", `on`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(Command, []byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%s) error = %v, wantErr %v", tt.doc, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := NewValidator().Validate("heartbeat", []byte(`{}`))
	if !errors.Is(err, ErrUnknownSchema) {
		t.Errorf("expected ErrUnknownSchema, got %v", err)
	}
}

func TestValidateEvent_Valid(t *testing.T) {
	v := NewValidator()

	events := []event.Event{
		event.Status{
			DeviceName:  "Pixel",
			Address:     "11:22:33:44:55:66",
			LastSeen:    10000,
			LastRSSI:    -55,
			Status:      "here",
			Location:    siteLink,
			Department:  "Cardiac dept",
			Orientation: "standing",
			Temperature: 36.6,
		},
		event.Status{
			Address:     "FF:FF:FF:FF:FF:FF",
			Status:      "unknown",
			Location:    siteLink,
			Orientation: "lying down",
		},
		event.Falling{
			Alert:       event.AlertFalling,
			Address:     "11:22:33:44:55:66",
			Status:      "not here",
			Location:    siteLink,
			Orientation: "lying down",
			Temperature: 35,
		},
		event.Department{Department: "Pediatric dept", RSSI: -62, Timestamp: 5000},
		event.Department{Department: "Pediatric dept", RSSI: 0, Timestamp: 0},
		event.PeriodicStatus{Orientation: "standing", Temperature: 36.55, Timestamp: 300000},
		event.Location{
			Lat:         10.0266,
			Lon:         76.3119,
			RSSI:        -55,
			Link:        siteLink,
			Orientation: "standing",
			Temperature: 36.6,
		},
	}

	for _, ev := range events {
		if err := v.ValidateEvent(ev); err != nil {
			t.Errorf("%s: expected valid, got %v", ev.Name(), err)
		}
	}
}

func TestValidateEvent_Invalid(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		ev   event.Event
	}{
		{"unknown presence", event.Status{Address: "11:22:33:44:55:66", Status: "away", Location: siteLink, Orientation: "standing"}},
		{"lower-case address", event.Status{Address: "aa:bb:cc:dd:ee:01", Status: "here", Location: siteLink, Orientation: "standing"}},
		{"wrong alert", event.Falling{Alert: "fell", Address: "11:22:33:44:55:66", Status: "here", Location: siteLink, Orientation: "standing"}},
		{"empty department", event.Department{Department: "", RSSI: -60}},
		{"positive rssi", event.Department{Department: "Cardiac dept", RSSI: 5}},
		{"unknown orientation", event.PeriodicStatus{Orientation: "sitting"}},
		{"short link", event.Location{Link: "https://www.google.com/maps?q=10.02,76.31", Orientation: "standing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.ValidateEvent(tt.ev); err == nil {
				t.Errorf("expected %s payload to be rejected", tt.ev.Name())
			}
		})
	}
}

func TestValidator_CachesCompiledSchema(t *testing.T) {
	v := NewValidator()

	for i := 0; i < 3; i++ {
		if err := v.Validate(Command, []byte(`{"command": "info"}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(v.cache) != 1 {
		t.Errorf("expected one cached schema, got %d", len(v.cache))
	}
}
