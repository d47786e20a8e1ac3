// Command stress drives a running simulation server with random rosters and
// checks every run report: mirrored collision records, survivors inside the
// field on distinct cells, and identical results when the same roster is
// replayed after a reset.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/autodrive/game/service"
)

// Options controls one stress session
type Options struct {
	Rounds      int
	Cars        int
	Width       int
	Height      int
	MaxCommands int
	Seed        uint64
}

// Summary counts what a stress session saw
type Summary struct {
	Rounds     int
	Collisions int
	Survivors  int
	Problems   []string
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Simulation server URL")
	rounds := flag.Int("rounds", 50, "Number of random rosters to run")
	cars := flag.Int("cars", 8, "Cars per roster")
	width := flag.Int("width", 10, "Field width")
	height := flag.Int("height", 10, "Field height")
	maxCommands := flag.Int("max-commands", 20, "Longest command string")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	log.Infof("Connecting to simulation server at %s (seed %d)", *serverURL, *seed)

	summary, err := Stress(NewClient(*serverURL), Options{
		Rounds:      *rounds,
		Cars:        *cars,
		Width:       *width,
		Height:      *height,
		MaxCommands: *maxCommands,
		Seed:        *seed,
	})
	if err != nil {
		log.Fatalf("Stress run failed: %v", err)
	}

	log.Infof("Rounds=%d Collisions=%d Survivors=%d", summary.Rounds, summary.Collisions, summary.Survivors)
	if len(summary.Problems) > 0 {
		for _, p := range summary.Problems {
			log.Error(p)
		}
		fmt.Fprintf(os.Stderr, "❌ %d problem(s) found, rerun with -seed %d\n", len(summary.Problems), *seed)
		os.Exit(1)
	}
	log.Info("✅ Every run report checked out")
}

// Stress runs opts.Rounds random rosters through one session, replaying each
// roster once after a reset to check that runs are deterministic.
func Stress(client *Client, opts Options) (*Summary, error) {
	session, err := client.CreateSession(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	log.Infof("Session created: %s (%dx%d)", session.ID, session.Width, session.Height)
	defer func() {
		if err := client.Delete(); err != nil {
			log.Warnf("Failed to delete session %s: %v", session.ID, err)
		}
	}()

	gen := NewRosterGenerator(opts.Width, opts.Height, opts.MaxCommands, opts.Seed)
	summary := &Summary{}

	for round := 1; round <= opts.Rounds; round++ {
		roster := gen.Next(opts.Cars)

		first, err := runRoster(client, roster)
		if err != nil {
			return summary, fmt.Errorf("round %d: %w", round, err)
		}
		second, err := runRoster(client, roster)
		if err != nil {
			return summary, fmt.Errorf("round %d replay: %w", round, err)
		}

		for _, p := range checkReport(first.Report) {
			summary.Problems = append(summary.Problems, fmt.Sprintf("round %d: %s", round, p))
		}
		if !sameOutcome(first.Report, second.Report) {
			summary.Problems = append(summary.Problems, fmt.Sprintf("round %d: replay produced a different result", round))
		}

		summary.Rounds++
		summary.Collisions += first.CollisionEvents
		summary.Survivors += len(first.Report.Survivors)

		log.WithFields(log.Fields{
			"round":      round,
			"steps":      first.Report.Steps,
			"collisions": first.CollisionEvents,
			"survivors":  len(first.Report.Survivors),
		}).Debug("round complete")
	}

	return summary, nil
}

// runRoster clears the field, registers roster in order and runs it
func runRoster(client *Client, roster []service.AddVehicleRequest) (*service.RunResult, error) {
	if err := client.Reset(); err != nil {
		return nil, err
	}
	for _, car := range roster {
		if err := client.AddVehicle(car); err != nil {
			return nil, err
		}
	}
	return client.Run()
}
