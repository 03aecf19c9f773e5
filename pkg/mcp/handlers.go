package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/wardwatch/pkg/api/types"
	"github.com/urmzd/wardwatch/pkg/client"
	"github.com/urmzd/wardwatch/pkg/monitor"
)

var resultMessages = map[int]string{
	monitor.ResultInvalid:     "Command rejected",
	monitor.ResultDisabled:    "Location broadcast disabled",
	monitor.ResultEnabled:     "Location broadcast enabled",
	monitor.ResultFall:        "Fall alert sent",
	monitor.ResultInfo:        "Status report sent",
	monitor.ResultLearningOn:  "Learning mode on; the next unknown device seen will be paired",
	monitor.ResultLearningOff: "Learning mode off",
}

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, err := s.backend.Health(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get health: %s", err)), nil
	}

	out := GetHealthOutput{
		Status:    h.Status,
		Motion:    h.Motion,
		Scanner:   h.Scanner,
		Transport: h.Transport,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := s.backend.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get status: %s", err)), nil
	}

	st := resp.State
	out := GetStatusOutput{
		Paired:            st.Paired,
		PairedName:        st.PairedName,
		Learning:          st.Learning,
		Presence:          st.Presence,
		LastSeenMs:        st.LastSeenMs,
		LastRSSI:          st.LastRSSI,
		Orientation:       st.Orientation,
		Department:        st.Department,
		TemperatureC:      st.TemperatureC,
		BroadcastLocation: st.BroadcastLocation,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSendCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := requiredString(request, "command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.backend.SendCommand(ctx, text)
	if errors.Is(err, client.ErrRejected) && res != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown command %q, %s", text, res.Detail)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to send command: %s", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(commandOutput(res))), nil
}

func (s *Server) handleToggleCommissioning(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.backend.ToggleCommissioning(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle commissioning: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(commandOutput(res))), nil
}

func (s *Server) handleListBeacons(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := s.backend.ListBeacons(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list beacons: %s", err)), nil
	}

	out := ListBeaconsOutput{Beacons: make([]BeaconOutput, 0, len(resp.Beacons)), Count: resp.Count}
	for _, b := range resp.Beacons {
		out.Beacons = append(out.Beacons, beaconOutput(b))
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSaveBeacon(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requiredString(request, "key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	address, err := requiredString(request, "address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	department, err := requiredString(request, "department")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	b, err := s.backend.SaveBeacon(ctx, key, types.BeaconRequest{Address: address, Department: department})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save beacon: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(beaconOutput(*b))), nil
}

func (s *Server) handleDeleteBeacon(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requiredString(request, "key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.backend.DeleteBeacon(ctx, key); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete beacon: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(DeleteBeaconOutput{
		Success: true,
		Message: fmt.Sprintf("Beacon %q removed", key),
	})), nil
}

func beaconOutput(b types.Beacon) BeaconOutput {
	return BeaconOutput{
		Key:        b.Key,
		Address:    b.Address,
		Department: b.Department,
		Code:       b.Code,
	}
}

func commandOutput(res *types.CommandResponse) CommandOutput {
	msg := resultMessages[res.Code]
	if monitor.IsDepartmentCode(res.Code) {
		msg = "Department announced"
	}
	if res.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, res.Detail)
	}
	return CommandOutput{
		Success: res.Code >= 0,
		Code:    res.Code,
		Command: res.Command,
		Message: msg,
	}
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
