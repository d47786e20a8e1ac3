package main

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
	"github.com/wricardo/mcp-training/autodrive/game/service"
)

// RosterGenerator produces random but reproducible sets of cars
type RosterGenerator struct {
	width       int
	height      int
	maxCommands int
	rng         *rand.Rand
}

func NewRosterGenerator(width, height, maxCommands int, seed uint64) *RosterGenerator {
	return &RosterGenerator{
		width:       width,
		height:      height,
		maxCommands: maxCommands,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Next returns up to n cars on distinct cells
func (g *RosterGenerator) Next(n int) []service.AddVehicleRequest {
	if cells := g.width * g.height; n > cells {
		n = cells
	}

	taken := make(map[engine.Position]bool, n)
	roster := make([]service.AddVehicleRequest, 0, n)
	headings := []string{"N", "E", "S", "W"}

	for i := 0; i < n; i++ {
		var pos engine.Position
		for {
			pos = engine.Position{X: g.rng.IntN(g.width), Y: g.rng.IntN(g.height)}
			if !taken[pos] {
				break
			}
		}
		taken[pos] = true

		roster = append(roster, service.AddVehicleRequest{
			ID:       fmt.Sprintf("car%02d", i+1),
			X:        pos.X,
			Y:        pos.Y,
			Heading:  headings[g.rng.IntN(len(headings))],
			Commands: g.commands(),
		})
	}
	return roster
}

// commands favours F so cars actually travel
func (g *RosterGenerator) commands() string {
	n := 1 + g.rng.IntN(g.maxCommands)
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		switch r := g.rng.IntN(6); {
		case r == 0:
			b.WriteByte('L')
		case r == 1:
			b.WriteByte('R')
		default:
			b.WriteByte('F')
		}
	}
	return b.String()
}
