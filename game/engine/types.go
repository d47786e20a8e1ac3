package engine

import "fmt"

// Heading is the cardinal direction a vehicle faces
type Heading int

const (
	North Heading = iota
	East
	South
	West
)

// Command is a single instruction consumed by a vehicle during one step
type Command byte

const (
	TurnLeft  Command = 'L'
	TurnRight Command = 'R'
	Forward   Command = 'F'
)

const (
	// Validation constants
	MinGridSize       = 1
	MaxGridSize       = 1000
	MaxVehicles       = 100
	MaxCommandsLength = 1000
)

// String returns the single-letter form of the heading
func (h Heading) String() string {
	switch h {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// MarshalText encodes the heading as its single-letter form
func (h Heading) MarshalText() ([]byte, error) {
	if !h.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHeading, int(h))
	}
	return []byte(h.String()), nil
}

// UnmarshalText decodes a single-letter heading
func (h *Heading) UnmarshalText(text []byte) error {
	parsed, err := ParseHeading(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// IsValid reports whether h is one of the four cardinal headings
func (h Heading) IsValid() bool {
	return h >= North && h <= West
}

// Left returns the heading one quarter turn counter-clockwise
func (h Heading) Left() Heading {
	return (h + 3) % 4
}

// Right returns the heading one quarter turn clockwise
func (h Heading) Right() Heading {
	return (h + 1) % 4
}

// Delta returns the unit offset of one forward step. North is +y.
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	}
	return 0, 0
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the position the way the collision log prints it
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// VehicleSnapshot is a read-only copy of a vehicle's observable state
type VehicleSnapshot struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Heading  Heading  `json:"heading"`
	Commands string   `json:"commands"`
	Collided bool     `json:"collided"`
}

// CollisionRecord is one line of the collision log. Every collision is
// reported twice, once from each side.
type CollisionRecord struct {
	Step     int      `json:"step"`
	Position Position `json:"position"`
	Subjects []string `json:"subjects"`
	Objects  []string `json:"objects"`
}

// String renders the record as a human-readable log line
func (c CollisionRecord) String() string {
	return fmt.Sprintf("%s, collides with %s at %s at step %d.",
		joinIDs(c.Subjects), joinIDs(c.Objects), c.Position, c.Step)
}

// RunReport is everything observable about one completed run
type RunReport struct {
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Steps      int               `json:"steps"`
	Initial    []VehicleSnapshot `json:"initial"`
	Collisions []CollisionRecord `json:"collisions"`
	Survivors  []VehicleSnapshot `json:"survivors"`
}

// SurvivorLines formats the uncollided vehicles as "- A, (1, 2) N"
func (r *RunReport) SurvivorLines() []string {
	lines := make([]string, 0, len(r.Survivors))
	for _, v := range r.Survivors {
		lines = append(lines, fmt.Sprintf("- %s, %s %s", v.ID, v.Position, v.Heading))
	}
	return lines
}

// CollisionLines formats the collision log, one "- ..." line per record
func (r *RunReport) CollisionLines() []string {
	lines := make([]string, 0, len(r.Collisions))
	for _, c := range r.Collisions {
		lines = append(lines, "- "+c.String())
	}
	return lines
}
