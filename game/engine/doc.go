// Package engine provides the core simulation logic for the auto driving
// car simulation.
//
// The engine package implements:
//   - Heading rotation over the N, E, S, W cycle
//   - Wall-clamped forward movement on a bounded grid
//   - Lockstep execution of per-vehicle command queues
//   - Collision detection and the two-sided collision log
//   - Input validation for the layers that feed the simulation
//
// Core Types:
//
// The Engine interface defines the main contract for simulation operations,
// implemented by Simulation. Vehicle owns its position, heading, pending
// commands and collision flag. ScenarioConfig describes a grid and its
// starting roster loaded from JSON files.
//
// Usage:
//
//	sim := engine.NewSimulation(10, 10)
//	sim.RegisterVehicle("A", 1, 2, engine.North, commands)
//
//	report, ok := sim.Run()
//	if !ok {
//		// no vehicles registered
//	}
//	for _, line := range report.CollisionLines() {
//		fmt.Println(line)
//	}
//
// Simulation Rules:
//
// Coordinates are zero-based and the grid spans [0,width) x [0,height).
// North increases y. Each step offers every vehicle one command in
// registration order, and the occupancy index is updated after each
// individual move. A vehicle that moves forward onto a cell held by other
// vehicles collides with all of them; every party is frozen for the rest
// of the run. Cells vacated earlier in the same step are free.
//
// Simulation never validates its inputs. ValidateGrid, ParseHeading,
// ParseCommands and ValidateRegistration run at the input boundary.
package engine
