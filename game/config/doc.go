// Package config provides scenario management for the auto driving car
// simulation.
//
// The config package handles:
//   - Loading scenarios from JSON files
//   - Scenario validation before load and save
//   - Default scenario management
//   - Scenario discovery and listing
//
// Scenario Format:
//
// Scenarios are stored as JSON files in the scenarios directory. The file
// name without .json is the scenario id used when creating sessions.
//
//	{
//	  "name": "Two car collision",
//	  "description": "A and B meet at (5, 4) on step 7",
//	  "width": 10,
//	  "height": 10,
//	  "vehicles": [
//	    {"id": "A", "x": 1, "y": 2, "heading": "N", "commands": "FFRFFFFRRL"},
//	    {"id": "B", "x": 7, "y": 8, "heading": "W", "commands": "FFLFFFFFFF"}
//	  ]
//	}
//
// Vehicles are registered in file order, which is also their processing order
// during a run.
//
// Usage:
//
//	manager, err := config.NewManager("scenarios")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sc, err := manager.LoadScenario("two_car_collision")
//	defaultScenario := manager.GetDefault()
//	scenarios, err := manager.ListScenarios()
//
// Validation:
//
// A scenario is valid when it has a name, a grid within the allowed size and
// a roster that registers cleanly: unique ids, in-bounds and unoccupied start
// cells, N/E/S/W headings and non-empty L/R/F command strings.
package config
