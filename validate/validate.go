// Command validate provides a small CLI that validates scenario JSON files
// in a directory (default ../scenarios). It checks:
//   - JSON structure and the required name
//   - Grid dimensions
//   - Every vehicle: unique id, valid heading and commands, a start cell
//     inside the field that no earlier vehicle occupies
//
// Valid scenarios are also run once so the report shows how they end.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateScenario loads a scenario file and reports every problem in it,
// not only the first one.
func validateScenario(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var scenario engine.ScenarioConfig
	if err := json.Unmarshal(data, &scenario); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if strings.TrimSpace(scenario.Name) == "" {
		result.fail("Missing required field: name")
	}

	if err := engine.ValidateGrid(scenario.Width, scenario.Height); err != nil {
		result.fail("%v", err)
		return result
	}

	sim := engine.NewSimulation(scenario.Width, scenario.Height)
	for i, vc := range scenario.Vehicles {
		if err := engine.AddVehicle(sim, vc); err != nil {
			result.fail("Vehicle %d (%s): %v", i+1, vc.ID, err)
		}
	}

	if !result.Valid {
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", scenario.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Field: %dx%d", scenario.Width, scenario.Height))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Vehicles: %d", sim.VehicleCount()))

	if report, ok := sim.Run(); ok {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Steps: %d", report.Steps))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Collisions: %d", engine.CollisionEvents(report)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Survivors: %d", len(report.Survivors)))
	}

	return result
}

// run validates every *.json file in dir and writes the report to w. It
// returns false if any file is invalid or none were found.
func run(dir string, w io.Writer) bool {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		fmt.Fprintf(w, "Error finding scenario files: %v\n", err)
		return false
	}
	if len(files) == 0 {
		fmt.Fprintf(w, "No scenario files found in %s\n", dir)
		return false
	}

	allValid := true
	for _, file := range files {
		result := validateScenario(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All scenarios are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some scenarios have errors")
	}
	return allValid
}

// main validates the directory given as the first argument, or
// ../scenarios, exiting with non-zero status if anything is invalid.
func main() {
	dir := "../scenarios"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if !run(dir, os.Stdout) {
		os.Exit(1)
	}
}
