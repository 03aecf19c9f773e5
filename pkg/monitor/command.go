package monitor

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrInvalidCommand is returned for unrecognized remote commands.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrInvalidBeaconKey is returned for a beacon key that cannot be sent
	// as a command.
	ErrInvalidBeaconKey = errors.New("invalid beacon key")
)

// CommandKind enumerates what the control surfaces can ask of the loop.
type CommandKind int

const (
	CommandEnableLocation CommandKind = iota + 1
	CommandDisableLocation
	CommandFall
	CommandDepartment
	CommandInfo
	// CommandToggleCommissioning stands in for the physical mode button.
	CommandToggleCommissioning
)

// Command is a parsed control request.
type Command struct {
	Kind CommandKind
	// Beacon is the beacon key of a CommandDepartment.
	Beacon string
	Raw    string
}

// Result codes reported back to the caller. Department commands report
// DepartmentCode of the beacon's position in the table.
const (
	ResultInvalid     = -1
	ResultDisabled    = 0
	ResultEnabled     = 1
	ResultFall        = 2
	ResultDepartment  = 3
	ResultInfo        = 5
	ResultLearningOn  = 6
	ResultLearningOff = 7

	// resultDepartmentExtra is the code of the third beacon onwards.
	resultDepartmentExtra = 8
)

// DepartmentCode returns the result code of forcing the i-th beacon: 3 and 4
// for the first two, 8 upwards for the rest.
func DepartmentCode(i int) int {
	if i < 2 {
		return ResultDepartment + i
	}
	return resultDepartmentExtra + i - 2
}

// IsDepartmentCode reports whether code is a DepartmentCode.
func IsDepartmentCode(code int) bool {
	return code == ResultDepartment || code == ResultDepartment+1 || code >= resultDepartmentExtra
}

// Result is the outcome of one command.
type Result struct {
	Code    int    `json:"code"`
	Command string `json:"command"`
	Detail  string `json:"detail,omitempty"`
}

var builtinCommands = map[string]CommandKind{
	"true":  CommandEnableLocation,
	"1":     CommandEnableLocation,
	"on":    CommandEnableLocation,
	"false": CommandDisableLocation,
	"0":     CommandDisableLocation,
	"off":   CommandDisableLocation,
	"fall":  CommandFall,
	"info":  CommandInfo,
}

// ParseCommand parses a remote text command, ignoring case. Department
// commands are the keys of the configured beacons.
func ParseCommand(raw string, beacons []Beacon) (Command, error) {
	text := strings.ToLower(strings.TrimSpace(raw))
	cmd := Command{Raw: text}

	if kind, ok := builtinCommands[text]; ok {
		cmd.Kind = kind
		return cmd, nil
	}

	for _, b := range beacons {
		if strings.EqualFold(b.Key, text) {
			cmd.Kind = CommandDepartment
			cmd.Beacon = b.Key
			return cmd, nil
		}
	}
	return cmd, fmt.Errorf("%w: %q", ErrInvalidCommand, raw)
}

// NormalizeBeaconKey returns key in the form ParseCommand matches. Keys must
// be a single word and must not shadow a built-in command.
func NormalizeBeaconKey(key string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" || strings.IndexFunc(k, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: %q must be a single word", ErrInvalidBeaconKey, key)
	}
	if _, ok := builtinCommands[k]; ok {
		return "", fmt.Errorf("%w: %q is a built-in command", ErrInvalidBeaconKey, key)
	}
	return k, nil
}

// CommandHelp lists the accepted text commands.
func CommandHelp(beacons []Beacon) string {
	keys := make([]string, 0, len(beacons))
	for _, b := range beacons {
		keys = append(keys, b.Key)
	}
	return "use: true/false, 1/0, on/off, fall, " + strings.Join(append(keys, "info"), ", ")
}
