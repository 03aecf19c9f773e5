package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check whether the motion sensor, BLE scanner and MQTT broker are connected"),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_status",
			mcp.WithDescription("Get the tracked patient's presence, orientation, department and temperature"),
		),
		s.handleGetStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("send_command",
			mcp.WithDescription("Send a text command to the monitor: on/off (location broadcast), fall (test alert), info (status report) or a department beacon key such as arg1"),
			mcp.WithString("command",
				mcp.Required(),
				mcp.Description("Command text, e.g. \"on\", \"fall\", \"info\", \"arg2\""),
			),
		),
		s.handleSendCommand,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("toggle_commissioning",
			mcp.WithDescription("Toggle learning mode. Entering it forgets the paired device; the next unknown device seen is paired."),
		),
		s.handleToggleCommissioning,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_beacons",
			mcp.WithDescription("List the department beacons with the command key and result code of each"),
		),
		s.handleListBeacons,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("save_beacon",
			mcp.WithDescription("Add or replace a department beacon; the monitor picks it up immediately"),
			mcp.WithString("key",
				mcp.Required(),
				mcp.Description("Command key, a single word that is not a built-in command, e.g. \"icu\""),
			),
			mcp.WithString("address",
				mcp.Required(),
				mcp.Description("Beacon BLE address, e.g. \"AA:BB:CC:DD:EE:09\""),
			),
			mcp.WithString("department",
				mcp.Required(),
				mcp.Description("Department name reported in events"),
			),
		),
		s.handleSaveBeacon,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_beacon",
			mcp.WithDescription("Remove a department beacon"),
			mcp.WithString("key",
				mcp.Required(),
				mcp.Description("Command key of the beacon"),
			),
		),
		s.handleDeleteBeacon,
	)
}
