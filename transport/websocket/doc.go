// Package websocket provides WebSocket transport for the auto driving car
// simulation.
//
// The package uses a hub-and-spoke model: a central Hub owns every
// connection and a pair of goroutines per client pumps reads and writes.
// Clients join a session with ?session=<id> on /ws and receive JSON messages
// whenever that session changes:
//
//	{"session_id": "ab12", "event": "state_update", "vehicles": [...]}
//	{"session_id": "ab12", "event": "run_complete", "report": {...}, "data": {...}}
//	{"session_id": "ab12", "event": "reset"}
//
// Incoming client messages are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	hub.BroadcastRun(sessionID, report)
//
// Broadcasts are queued to the hub's event loop and dropped with a warning
// if the queue is full, so callers never block on slow clients.
package websocket
