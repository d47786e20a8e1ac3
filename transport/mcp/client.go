package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
	"github.com/wricardo/mcp-training/autodrive/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Auto Driving Car Simulation",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Auto Driving Car Simulation - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Cars drive on a rectangular grid. Each car has a position, a heading (N, E, S, W)
and a list of commands (L = turn left, R = turn right, F = forward). A run executes
one command per car per step, in the order cars were added, and reports collisions.

AVAILABLE TOOLS:
- create_session: Create a new field (width/height) or load a scenario
- list_sessions / get_session / delete_session: Manage sessions
- add_vehicle: Register a car with id, x, y, heading and commands
- list_vehicles: Show the current roster
- run_simulation: Run every queued command and get the collision report
- reset_simulation: Remove every car, keep the field
- list_scenarios: List prepared scenarios
- simulation_rules: Full rules, including collision reporting`),
	)

	c.registerTools()
}

func sessionIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new simulation session, either an empty field of the given size or a prepared scenario",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Field width (x runs 0..width-1)",
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "Field height (y runs 0..height-1)",
				},
				"scenario_id": map[string]interface{}{
					"type":        "string",
					"description": "Scenario to load instead of an empty field (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active simulation sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session, including its last run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Simulation
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_vehicle",
		Description: "Add a car to the field. Cars run in the order they are added.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Unique car name",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Starting x (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Starting y (0-based, north is +y)",
				},
				"heading": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"N", "E", "S", "W"},
					"description": "Starting heading",
				},
				"commands": map[string]interface{}{
					"type":        "string",
					"description": "Command string over L, R and F, e.g. FFRFFFFRRL",
				},
			},
			Required: []string{"session_id", "id", "x", "y", "heading", "commands"},
		},
	}, c.handleAddVehicle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_vehicles",
		Description: "List the cars in a session in run order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"include_commands": map[string]interface{}{
					"type":        "boolean",
					"description": "Show the remaining commands of each car (default true)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleListVehicles)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_simulation",
		Description: "Run every queued command and report collisions and surviving cars",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRun)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_simulation",
		Description: "Remove every car from the session; the field size is kept",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	// Scenarios and help
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List prepared scenarios that can seed a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulation_rules",
		Description: "Get the complete simulation rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleSimulationRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if scenarioID, _ := args["scenario_id"].(string); scenarioID != "" {
		body["scenario_id"] = scenarioID
	} else {
		width, okW := intArg(args, "width")
		height, okH := intArg(args, "height")
		if okW != okH {
			return mcp.NewToolResultError("width and height must be given together"), nil
		}
		if okW {
			body["width"] = width
			body["height"] = height
		}
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (%dx%d, %d cars, Scenario: %s, Created: %s)\n",
			s.ID, s.Width, s.Height, len(s.Vehicles), s.ScenarioName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string `json:"message"`
	}
	if err := c.apiCall(ctx, "DELETE", sessionPath(sessionID, ""), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleAddVehicle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	req := service.AddVehicleRequest{}
	req.ID, _ = args["id"].(string)
	req.Heading, _ = args["heading"].(string)
	req.Commands, _ = args["commands"].(string)
	var okX, okY bool
	req.X, okX = intArg(args, "x")
	req.Y, okY = intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	var listing service.VehicleListing
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/vehicles"), req, &listing); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added car %s.\n\n%s", req.ID, formatListing(&listing))), nil
}

func (c *Client) handleListVehicles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	path := sessionPath(sessionID, "/vehicles")
	if include, ok := args["include_commands"].(bool); ok && !include {
		path += "?commands=false"
	}

	var listing service.VehicleListing
	if err := c.apiCall(ctx, "GET", path, nil, &listing); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatListing(&listing)), nil
}

func (c *Client) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.RunResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/run"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string               `json:"message"`
		Session *service.SessionInfo `json:"session"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := response.Message
	if response.Session != nil {
		result += fmt.Sprintf("\nField: %dx%d, no cars.", response.Session.Width, response.Session.Height)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []service.ScenarioInfo
	if err := c.apiCall(ctx, "GET", "/api/scenarios", nil, &scenarios); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Scenarios:\n\n")
	for _, sc := range scenarios {
		fmt.Fprintf(&b, "• %s (scenario_id: %s)\n  %s\n  Field: %dx%d, Cars: %d\n\n",
			sc.Name, sc.ScenarioID, sc.Description, sc.Width, sc.Height, sc.VehicleCount)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleSimulationRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(simulationRules), nil
}

const simulationRules = `Auto Driving Car Simulation - Rules

FIELD:
• A rectangle of width x height cells. Valid positions are 0 <= x < width and 0 <= y < height.
• (0,0) is the bottom-left corner. North is +y, East is +x.

CARS:
• Every car has a unique id, a position, a heading (N, E, S or W) and a command string.
• A new car must start inside the field on a cell no other car occupies.

COMMANDS:
• L: rotate 90 degrees left (N -> W -> S -> E -> N)
• R: rotate 90 degrees right (N -> E -> S -> W -> N)
• F: move one cell forward. A move that would leave the field is ignored; the car stays put.

RUNNING:
• The run lasts as many steps as the longest command string.
• Each step, every car executes its next command, in the order the cars were added.
• A car whose commands are used up simply waits.

COLLISIONS:
• After a car moves forward onto a cell holding other cars, all of them collide.
• Collided cars stop and never execute another command.
• A car that already left a cell earlier in the same step is not hit there.
• Each collision is reported twice, once from each side:
    - A, collides with B at (5, 4) at step 7.
    - B, collides with A at (5, 4) at step 7.
  When several cars are hit at once their ids are listed in descending order.

RESULT:
• Surviving cars are listed with their final position and heading:
    - A, (5, 4) S
• Running a session with no cars is an error. Reset removes every car and keeps the field.`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", session.ID)
	if session.ScenarioName != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", session.ScenarioName)
	}
	fmt.Fprintf(&b, "Field: %dx%d\n", session.Width, session.Height)
	fmt.Fprintf(&b, "Created: %s\n\n", session.CreatedAt.Format("2006-01-02 15:04:05"))

	b.WriteString(formatVehicles(session.Vehicles))

	if session.LastRun != nil {
		b.WriteString("\nLast run:\n")
		b.WriteString(formatReport(session.LastRun))
	}
	return b.String()
}

func formatVehicles(vehicles []engine.VehicleSnapshot) string {
	if len(vehicles) == 0 {
		return "No cars on the field.\n"
	}

	var b strings.Builder
	b.WriteString("Your current list of cars are:\n")
	for _, v := range vehicles {
		status := ""
		if v.Collided {
			status = " [collided]"
		}
		fmt.Fprintf(&b, "- %s, %s %s, %s%s\n", v.ID, v.Position, v.Heading, v.Commands, status)
	}
	return b.String()
}

func formatListing(listing *service.VehicleListing) string {
	if len(listing.Lines) == 0 {
		return fmt.Sprintf("Field %dx%d has no cars.\n", listing.Width, listing.Height)
	}

	var b strings.Builder
	b.WriteString("Your current list of cars are:\n")
	for _, line := range listing.Lines {
		b.WriteString("- " + line + "\n")
	}
	return b.String()
}

func formatRunResult(result *service.RunResult) string {
	if result.Report == nil {
		return "No report available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run finished after %d steps.\n\n", result.Report.Steps)
	b.WriteString(formatReport(result.Report))
	return b.String()
}

func formatReport(report *engine.RunReport) string {
	var b strings.Builder

	if collisions := report.CollisionLines(); len(collisions) > 0 {
		b.WriteString("Collisions:\n")
		for _, line := range collisions {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	} else {
		b.WriteString("No collisions.\n\n")
	}

	b.WriteString("After simulation, the result is:\n")
	survivors := report.SurvivorLines()
	if len(survivors) == 0 {
		b.WriteString("(no surviving cars)\n")
	}
	for _, line := range survivors {
		b.WriteString(line + "\n")
	}
	return b.String()
}
