// Package mcp exposes the auto driving car simulation to AI agents over the
// Model Context Protocol.
//
// The Client is a thin proxy: every tool call is turned into a request
// against the REST API and the JSON response is rendered as text.
//
// MCP Tools:
//   - create_session: Create an empty field or load a scenario
//   - list_sessions / get_session / delete_session: Session management
//   - add_vehicle: Register a car with position, heading and commands
//   - list_vehicles: Show the roster in run order
//   - run_simulation: Run all commands and report collisions and survivors
//   - reset_simulation: Remove every car, keep the field
//   - list_scenarios: List prepared scenarios
//   - simulation_rules: Full rules text
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
