// Command analyze runs every scenario in a directory (default "scenarios")
// and prints how each one ends: the starting roster, the collision log and
// the surviving cars. Pass scenario ids after the directory to analyze only
// those.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/wricardo/mcp-training/autodrive/game/config"
	"github.com/wricardo/mcp-training/autodrive/game/engine"
)

func main() {
	dir := "scenarios"
	var names []string
	if len(os.Args) > 1 {
		dir = os.Args[1]
		names = os.Args[2:]
	}

	if err := analyzeDir(os.Stdout, dir, names); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// analyzeDir analyzes the named scenarios, or all of them when names is empty
func analyzeDir(w io.Writer, dir string, names []string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		scenarios, err := manager.ListScenarios()
		if err != nil {
			return err
		}
		for _, sc := range scenarios {
			names = append(names, sc.ScenarioID)
		}
	}

	if len(names) == 0 {
		fmt.Fprintf(w, "No scenarios found in %s\n", dir)
		return nil
	}

	for _, name := range names {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", name)

		sc, err := manager.LoadScenario(name)
		if err != nil {
			fmt.Fprintf(w, "Error loading scenario: %v\n", err)
			continue
		}
		analyzeScenario(w, sc)
	}
	return nil
}

// analyzeScenario runs a scenario once and prints the outcome
func analyzeScenario(w io.Writer, sc *engine.ScenarioConfig) {
	fmt.Fprintf(w, "Name: %s\n", sc.Name)
	fmt.Fprintf(w, "Field: %d x %d\n", sc.Width, sc.Height)

	sim, err := engine.NewSimulationFromScenario(sc)
	if err != nil {
		fmt.Fprintf(w, "Error building simulation: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Cars: %d\n", sim.VehicleCount())
	for _, line := range sim.Listing(true) {
		fmt.Fprintf(w, "- %s\n", line)
	}

	report, ok := sim.Run()
	if !ok {
		fmt.Fprintln(w, "Nothing to run: the field has no cars")
		return
	}

	fmt.Fprintf(w, "Steps: %d\n", report.Steps)

	if n := engine.CollisionEvents(report); n > 0 {
		fmt.Fprintf(w, "⚠️  %d collision(s), cars lost: %v\n", n, engine.CollidedIDs(report))
		for _, line := range report.CollisionLines() {
			fmt.Fprintln(w, line)
		}
	} else {
		fmt.Fprintln(w, "✅ No collisions")
	}

	fmt.Fprintln(w, "After simulation, the result is:")
	for _, line := range report.SurvivorLines() {
		fmt.Fprintln(w, line)
	}
}
