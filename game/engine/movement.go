package engine

import (
	"fmt"
	"strings"
)

// Vehicle is a single car on the grid. It has no reference back to the
// simulation that owns it.
type Vehicle struct {
	ID       string
	Position Position
	Heading  Heading
	Commands []Command
	Collided bool
}

// NewVehicle creates a vehicle with its own copy of the command queue
func NewVehicle(id string, x, y int, heading Heading, commands []Command) *Vehicle {
	queue := make([]Command, len(commands))
	copy(queue, commands)
	return &Vehicle{
		ID:       id,
		Position: Position{X: x, Y: y},
		Heading:  heading,
		Commands: queue,
	}
}

// RotateLeft turns the vehicle a quarter turn counter-clockwise
func (v *Vehicle) RotateLeft() {
	v.Heading = v.Heading.Left()
}

// RotateRight turns the vehicle a quarter turn clockwise
func (v *Vehicle) RotateRight() {
	v.Heading = v.Heading.Right()
}

// CanMoveTo checks if the coordinates lie inside [0,width)x[0,height)
func CanMoveTo(x, y, width, height int) bool {
	return x >= 0 && x < width && y >= 0 && y < height
}

// StepForward moves one cell along the heading. Moving into a wall leaves
// the vehicle where it is.
func (v *Vehicle) StepForward(width, height int) {
	dx, dy := v.Heading.Delta()
	newX, newY := v.Position.X+dx, v.Position.Y+dy
	if !CanMoveTo(newX, newY, width, height) {
		return
	}
	v.Position = Position{X: newX, Y: newY}
}

// ApplyCommand executes one command. A collided vehicle ignores everything.
func (v *Vehicle) ApplyCommand(cmd Command, width, height int) {
	if v.Collided {
		return
	}

	switch cmd {
	case TurnLeft:
		v.RotateLeft()
	case TurnRight:
		v.RotateRight()
	case Forward:
		v.StepForward(width, height)
	}
}

// popCommand removes and returns the front of the queue
func (v *Vehicle) popCommand() (Command, bool) {
	if len(v.Commands) == 0 {
		return 0, false
	}
	cmd := v.Commands[0]
	v.Commands = v.Commands[1:]
	return cmd, true
}

// Snapshot returns a copy of the vehicle's observable state
func (v *Vehicle) Snapshot() VehicleSnapshot {
	return VehicleSnapshot{
		ID:       v.ID,
		Position: v.Position,
		Heading:  v.Heading,
		Commands: FormatCommands(v.Commands),
		Collided: v.Collided,
	}
}

// Describe renders a one-line summary of the vehicle
func (v *Vehicle) Describe(includeCommands bool) string {
	line := fmt.Sprintf("%s, %s %s", v.ID, v.Position, v.Heading)
	if includeCommands {
		line += ", " + FormatCommands(v.Commands)
	}
	return line
}

// FormatCommands turns a queue back into its "LRF" string form
func FormatCommands(commands []Command) string {
	var b strings.Builder
	b.Grow(len(commands))
	for _, c := range commands {
		b.WriteByte(byte(c))
	}
	return b.String()
}
