package main

import (
	"fmt"
	"slices"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
)

// checkReport lists every way report breaks the rules of a run
func checkReport(report *engine.RunReport) []string {
	var problems []string

	if len(report.Collisions)%2 != 0 {
		problems = append(problems, fmt.Sprintf("odd number of collision records: %d", len(report.Collisions)))
	}
	for i := 0; i+1 < len(report.Collisions); i += 2 {
		a, b := report.Collisions[i], report.Collisions[i+1]
		if a.Step != b.Step || a.Position != b.Position ||
			!slices.Equal(a.Subjects, b.Objects) || !slices.Equal(a.Objects, b.Subjects) {
			problems = append(problems, fmt.Sprintf("collision records %d and %d do not mirror each other", i, i+1))
		}
		if a.Step < 1 || a.Step > report.Steps {
			problems = append(problems, fmt.Sprintf("collision at step %d outside 1..%d", a.Step, report.Steps))
		}
	}

	if longest := engine.LongestQueue(report.Initial); report.Steps != longest {
		problems = append(problems, fmt.Sprintf("run took %d steps, longest command queue is %d", report.Steps, longest))
	}

	collided := engine.CollidedIDs(report)
	if len(collided)+len(report.Survivors) != len(report.Initial) {
		problems = append(problems, fmt.Sprintf("%d collided + %d survivors != %d cars",
			len(collided), len(report.Survivors), len(report.Initial)))
	}

	seen := make(map[engine.Position]string)
	for _, c := range report.Collisions {
		seen[c.Position] = "collision"
	}
	for _, v := range report.Survivors {
		if !engine.CanMoveTo(v.Position.X, v.Position.Y, report.Width, report.Height) {
			problems = append(problems, fmt.Sprintf("survivor %s left the field at %s", v.ID, v.Position))
		}
		if other, ok := seen[v.Position]; ok {
			problems = append(problems, fmt.Sprintf("survivor %s shares %s with %s", v.ID, v.Position, other))
		}
		seen[v.Position] = v.ID
		if v.Commands != "" {
			problems = append(problems, fmt.Sprintf("survivor %s has unused commands %q", v.ID, v.Commands))
		}
	}

	return problems
}

// sameOutcome reports whether two runs printed the same log and survivors
func sameOutcome(a, b *engine.RunReport) bool {
	return slices.Equal(a.CollisionLines(), b.CollisionLines()) &&
		slices.Equal(a.SurvivorLines(), b.SurvivorLines())
}
