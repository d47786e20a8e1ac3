// Package session provides session management for the auto driving car
// simulation.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine.Simulation, built from a scenario
// at creation time, plus the report of its most recent run.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs from crypto/rand. Lookups are
// case-insensitive.
//
// Concurrency:
//
// The manager guards its map with a RWMutex. It does not serialize access to
// the simulations themselves; the service layer does that.
//
// Usage:
//
//	manager := session.NewManager()
//	manager.StartCleanup(ctx, time.Minute, 24*time.Hour)
//
//	sess, err := manager.Create("", scenario)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//	sessions := manager.List()
//
// Sessions live in memory only and disappear when the process exits.
package session
