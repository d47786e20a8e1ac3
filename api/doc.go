// Package api provides HTTP REST API handlers for the auto driving car
// simulation.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"width":10,"height":10} or {"scenario_id":"..."})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session with its roster and last run
//   - DELETE /api/sessions/{id} - Delete a session
//
// Simulation:
//   - GET /api/sessions/{id}/vehicles - Roster listing (?commands=false hides queues)
//   - POST /api/sessions/{id}/vehicles - Register a vehicle
//   - POST /api/sessions/{id}/run - Run every queued command
//   - POST /api/sessions/{id}/reset - Clear the roster, keep the grid
//
// Scenarios:
//   - GET /api/scenarios - List scenario files
//   - POST /api/scenarios - Validate and save a scenario
//   - GET /api/scenarios/{name} - Get one scenario
//
// Other:
//   - GET /api/health - Liveness
//   - GET /ws?session={id} - WebSocket updates for a session
//
// Registering a vehicle:
//
//	POST /api/sessions/ab12/vehicles
//	{"id": "A", "x": 1, "y": 2, "heading": "N", "commands": "FFRFFFFRRL"}
//
// Coordinates are 0-based and must lie inside [0,width)x[0,height).
//
// Error Handling:
//
// Errors are returned as JSON, {"error": "message"}, with the status taken
// from the wrapped sentinel error:
//   - 400 for invalid grids, headings, commands, ids and out-of-bounds cells
//   - 404 for unknown sessions and scenarios
//   - 409 for duplicate ids, occupied cells, full rosters and runs with no vehicles
//   - 500 for everything else
package api
