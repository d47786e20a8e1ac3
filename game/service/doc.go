// Package service provides the business logic layer for the auto driving
// car simulation.
//
// The service package implements:
//   - Multi-session simulation management
//   - Scenario loading and saving
//   - Vehicle registration through the engine's validation layer
//   - Run and reset orchestration with collision summaries
//
// Core Interfaces:
//
// SimulationService is the main service interface providing high-level operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ScenarioManager manages scenario file loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the engine. Every operation holds the service mutex, so a Simulation is
// never touched by two goroutines at once. Runs, collisions and registrations
// are recorded as OpenTelemetry counters on the global meter provider unless
// a meter is passed to NewSimulationServiceWithMeter.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	scenarioMgr := config.NewManager("scenarios")
//	svc := service.NewSimulationService(sessionMgr, scenarioMgr)
//
//	info, err := svc.CreateSession(ctx, 10, 10)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_, err = svc.AddVehicle(ctx, info.ID, service.AddVehicleRequest{
//		ID: "A", X: 1, Y: 2, Heading: "N", Commands: "FFRFFFFRRL",
//	})
//	result, err := svc.Run(ctx, info.ID)
//
// Errors:
//
// ErrSessionNotFound, ErrScenarioNotFound, ErrInvalidScenario and
// ErrNoVehicles are returned wrapped; registration failures carry the
// engine's sentinel errors. Use errors.Is to classify them.
package service
