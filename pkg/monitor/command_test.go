package monitor

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	beacons := DefaultBeacons()
	tests := []struct {
		raw    string
		kind   CommandKind
		beacon string
	}{
		{"true", CommandEnableLocation, ""},
		{"1", CommandEnableLocation, ""},
		{" ON ", CommandEnableLocation, ""},
		{"false", CommandDisableLocation, ""},
		{"0", CommandDisableLocation, ""},
		{"Off", CommandDisableLocation, ""},
		{"fall", CommandFall, ""},
		{"ARG1", CommandDepartment, "arg1"},
		{"arg2", CommandDepartment, "arg2"},
		{"info", CommandInfo, ""},
	}

	for _, tt := range tests {
		cmd, err := ParseCommand(tt.raw, beacons)
		if err != nil {
			t.Errorf("ParseCommand(%q): unexpected error %v", tt.raw, err)
			continue
		}
		if cmd.Kind != tt.kind || cmd.Beacon != tt.beacon {
			t.Errorf("ParseCommand(%q) = %+v, want kind %d beacon %q", tt.raw, cmd, tt.kind, tt.beacon)
		}
	}
}

func TestParseCommand_Invalid(t *testing.T) {
	for _, raw := range []string{"", "yes", "arg3", "falls", "commission"} {
		if _, err := ParseCommand(raw, DefaultBeacons()); !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("ParseCommand(%q): expected ErrInvalidCommand, got %v", raw, err)
		}
	}
}

func TestCommandHelp(t *testing.T) {
	want := "use: true/false, 1/0, on/off, fall, arg1, arg2, info"
	if got := CommandHelp(DefaultBeacons()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseCommand_StoredKeyCase(t *testing.T) {
	beacons := []Beacon{{Key: "ICU", Department: "ICU"}}
	for _, raw := range []string{"ICU", "icu", " Icu "} {
		cmd, err := ParseCommand(raw, beacons)
		if err != nil || cmd.Kind != CommandDepartment || cmd.Beacon != "ICU" {
			t.Errorf("ParseCommand(%q) = %+v, %v", raw, cmd, err)
		}
	}
}

func TestNormalizeBeaconKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"arg1", "arg1"},
		{" ICU ", "icu"},
		{"Ward-3", "ward-3"},
	}
	for _, tt := range tests {
		got, err := NormalizeBeaconKey(tt.key)
		if err != nil || got != tt.want {
			t.Errorf("NormalizeBeaconKey(%q) = %q, %v; want %q", tt.key, got, err, tt.want)
		}
	}

	for _, key := range []string{"", "  ", "icu west", "info", "FALL", "on", "0"} {
		if _, err := NormalizeBeaconKey(key); !errors.Is(err, ErrInvalidBeaconKey) {
			t.Errorf("NormalizeBeaconKey(%q): expected ErrInvalidBeaconKey, got %v", key, err)
		}
	}
}

func TestDepartmentCode(t *testing.T) {
	tests := []struct {
		index int
		code  int
	}{
		{0, 3},
		{1, 4},
		{2, 8},
		{3, 9},
	}
	for _, tt := range tests {
		if got := DepartmentCode(tt.index); got != tt.code {
			t.Errorf("DepartmentCode(%d) = %d, want %d", tt.index, got, tt.code)
		}
		if !IsDepartmentCode(tt.code) {
			t.Errorf("IsDepartmentCode(%d) = false", tt.code)
		}
	}
	for _, code := range []int{ResultInvalid, ResultDisabled, ResultEnabled, ResultFall, ResultInfo, ResultLearningOn, ResultLearningOff} {
		if IsDepartmentCode(code) {
			t.Errorf("IsDepartmentCode(%d) = true", code)
		}
	}
}
