package engine

import (
	"slices"
	"strings"
)

// Engine provides the main interface for simulation operations
type Engine interface {
	// Grid
	Width() int
	Height() int

	// Roster management
	RegisterVehicle(id string, x, y int, heading Heading, commands []Command)
	Reset()
	Vehicles() []VehicleSnapshot
	Listing(includeCommands bool) []string
	HasVehicle(id string) bool
	IsOccupied(pos Position) bool
	VehicleCount() int

	// Execution
	Run() (*RunReport, bool)
}

// Simulation implements the Engine interface. It is not safe for
// concurrent use; callers serialize access.
type Simulation struct {
	width  int
	height int

	vehicles  []*Vehicle
	index     map[string]int
	occupancy map[Position]map[string]struct{}
}

// NewSimulation creates an empty simulation on a width x height grid.
// Bounds are checked by ValidateGrid at the input boundary.
func NewSimulation(width, height int) *Simulation {
	return &Simulation{
		width:     width,
		height:    height,
		index:     make(map[string]int),
		occupancy: make(map[Position]map[string]struct{}),
	}
}

// Width returns the grid width
func (s *Simulation) Width() int {
	return s.width
}

// Height returns the grid height
func (s *Simulation) Height() int {
	return s.height
}

// RegisterVehicle adds a vehicle at the end of the processing order.
// The caller has already checked the id, the cell and the command string.
func (s *Simulation) RegisterVehicle(id string, x, y int, heading Heading, commands []Command) {
	v := NewVehicle(id, x, y, heading, commands)
	s.index[id] = len(s.vehicles)
	s.vehicles = append(s.vehicles, v)
	s.occupy(v.Position, id)
}

// Reset discards every vehicle; the grid bounds are kept
func (s *Simulation) Reset() {
	s.vehicles = nil
	s.index = make(map[string]int)
	s.occupancy = make(map[Position]map[string]struct{})
}

// Vehicles returns snapshots of all vehicles in registration order
func (s *Simulation) Vehicles() []VehicleSnapshot {
	result := make([]VehicleSnapshot, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		result = append(result, v.Snapshot())
	}
	return result
}

// Listing returns one Describe line per vehicle in registration order
func (s *Simulation) Listing(includeCommands bool) []string {
	lines := make([]string, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		lines = append(lines, v.Describe(includeCommands))
	}
	return lines
}

// Vehicle returns the vehicle snapshot for id
func (s *Simulation) Vehicle(id string) (VehicleSnapshot, bool) {
	i, ok := s.index[id]
	if !ok {
		return VehicleSnapshot{}, false
	}
	return s.vehicles[i].Snapshot(), true
}

// HasVehicle reports whether id is already registered
func (s *Simulation) HasVehicle(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IsOccupied reports whether any vehicle currently sits on pos
func (s *Simulation) IsOccupied(pos Position) bool {
	return len(s.occupancy[pos]) > 0
}

// VehicleCount returns the number of registered vehicles
func (s *Simulation) VehicleCount() int {
	return len(s.vehicles)
}

// Run executes every queued command in lockstep. It returns false without
// touching anything when no vehicle is registered.
func (s *Simulation) Run() (*RunReport, bool) {
	if len(s.vehicles) == 0 {
		return nil, false
	}

	report := &RunReport{
		Width:      s.width,
		Height:     s.height,
		Initial:    s.Vehicles(),
		Collisions: []CollisionRecord{},
	}

	maxLen := 0
	for _, v := range s.vehicles {
		if len(v.Commands) > maxLen {
			maxLen = len(v.Commands)
		}
	}
	report.Steps = maxLen

	for step := 1; step <= maxLen; step++ {
		for _, v := range s.vehicles {
			if v.Collided {
				continue
			}
			cmd, ok := v.popCommand()
			if !ok {
				continue
			}

			prev := v.Position
			v.ApplyCommand(cmd, s.width, s.height)

			if cmd == Forward {
				if others := sortedDesc(s.occupancy[v.Position], v.ID); len(others) > 0 {
					v.Collided = true
					for _, id := range others {
						s.vehicles[s.index[id]].Collided = true
					}
					report.Collisions = append(report.Collisions,
						CollisionRecord{Step: step, Position: v.Position, Subjects: []string{v.ID}, Objects: others},
						CollisionRecord{Step: step, Position: v.Position, Subjects: others, Objects: []string{v.ID}},
					)
				}
			}

			s.vacate(prev, v.ID)
			s.occupy(v.Position, v.ID)
		}
	}

	report.Survivors = []VehicleSnapshot{}
	for _, v := range s.vehicles {
		if !v.Collided {
			report.Survivors = append(report.Survivors, v.Snapshot())
		}
	}

	return report, true
}

func (s *Simulation) occupy(pos Position, id string) {
	cell, ok := s.occupancy[pos]
	if !ok {
		cell = make(map[string]struct{})
		s.occupancy[pos] = cell
	}
	cell[id] = struct{}{}
}

func (s *Simulation) vacate(pos Position, id string) {
	cell, ok := s.occupancy[pos]
	if !ok {
		return
	}
	delete(cell, id)
	if len(cell) == 0 {
		delete(s.occupancy, pos)
	}
}

// sortedDesc lists the ids in set, minus skip, in descending order
func sortedDesc(set map[string]struct{}, skip string) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		if id != skip {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	slices.Reverse(ids)
	return ids
}

func joinIDs(ids []string) string {
	return strings.Join(ids, ", ")
}
