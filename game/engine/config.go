package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrInvalidGrid      = errors.New("invalid grid size")
	ErrInvalidHeading   = errors.New("invalid heading")
	ErrInvalidCommands  = errors.New("invalid commands")
	ErrInvalidVehicleID = errors.New("invalid vehicle id")
	ErrDuplicateVehicle = errors.New("vehicle already exists")
	ErrOutOfBounds      = errors.New("position out of bounds")
	ErrCellOccupied     = errors.New("cell already occupied")
	ErrTooManyVehicles  = errors.New("too many vehicles")
)

// VehicleConfig describes one vehicle in a scenario file
type VehicleConfig struct {
	ID       string `json:"id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Heading  string `json:"heading"`
	Commands string `json:"commands"`
}

// ScenarioConfig represents a grid plus its starting roster, loaded from JSON
type ScenarioConfig struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Vehicles    []VehicleConfig `json:"vehicles"`
}

// ValidateGrid checks the requested field dimensions
func ValidateGrid(width, height int) error {
	if width < MinGridSize || width > MaxGridSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidGrid, MinGridSize, MaxGridSize, width)
	}
	if height < MinGridSize || height > MaxGridSize {
		return fmt.Errorf("%w: height must be between %d and %d, got %d", ErrInvalidGrid, MinGridSize, MaxGridSize, height)
	}
	return nil
}

// ParseHeading converts exactly "N", "E", "S" or "W" into a Heading
func ParseHeading(s string) (Heading, error) {
	switch s {
	case "N":
		return North, nil
	case "E":
		return East, nil
	case "S":
		return South, nil
	case "W":
		return West, nil
	}
	return North, fmt.Errorf("%w: %q (expected N, E, S or W)", ErrInvalidHeading, s)
}

// ParseCommands converts a non-empty string over {L, R, F} into commands
func ParseCommands(s string) ([]Command, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: command string is empty", ErrInvalidCommands)
	}
	if len(s) > MaxCommandsLength {
		return nil, fmt.Errorf("%w: at most %d commands allowed, got %d", ErrInvalidCommands, MaxCommandsLength, len(s))
	}

	commands := make([]Command, 0, len(s))
	for i, char := range []rune(s) {
		switch char {
		case rune(TurnLeft), rune(TurnRight), rune(Forward):
			commands = append(commands, Command(char))
		default:
			return nil, fmt.Errorf("%w: invalid character '%c' at position %d (only L, R and F allowed)", ErrInvalidCommands, char, i+1)
		}
	}
	return commands, nil
}

// ValidateRegistration checks a new vehicle against the current roster.
// The simulation itself never calls this.
func ValidateRegistration(sim Engine, id string, x, y int) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidVehicleID)
	}
	if sim.HasVehicle(id) {
		return fmt.Errorf("%w: %s", ErrDuplicateVehicle, id)
	}
	if sim.VehicleCount() >= MaxVehicles {
		return fmt.Errorf("%w: limit is %d", ErrTooManyVehicles, MaxVehicles)
	}
	if !CanMoveTo(x, y, sim.Width(), sim.Height()) {
		return fmt.Errorf("%w: (%d, %d) is outside [0,%d)x[0,%d)", ErrOutOfBounds, x, y, sim.Width(), sim.Height())
	}
	if sim.IsOccupied(Position{X: x, Y: y}) {
		return fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, x, y)
	}
	return nil
}

// AddVehicle validates and registers one vehicle described by strings
func AddVehicle(sim Engine, vc VehicleConfig) error {
	if err := ValidateRegistration(sim, vc.ID, vc.X, vc.Y); err != nil {
		return err
	}
	heading, err := ParseHeading(vc.Heading)
	if err != nil {
		return err
	}
	commands, err := ParseCommands(vc.Commands)
	if err != nil {
		return err
	}
	sim.RegisterVehicle(vc.ID, vc.X, vc.Y, heading, commands)
	return nil
}

// ValidateScenario validates a scenario for correctness by building it
func ValidateScenario(config *ScenarioConfig) error {
	if config == nil {
		return fmt.Errorf("scenario validation: scenario is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("scenario validation: name is required")
	}
	_, err := NewSimulationFromScenario(config)
	return err
}

// NewSimulationFromScenario builds a simulation with the scenario's roster
// registered in file order
func NewSimulationFromScenario(config *ScenarioConfig) (*Simulation, error) {
	if err := ValidateGrid(config.Width, config.Height); err != nil {
		return nil, fmt.Errorf("scenario validation: %w", err)
	}

	sim := NewSimulation(config.Width, config.Height)
	for i, vc := range config.Vehicles {
		if err := AddVehicle(sim, vc); err != nil {
			return nil, fmt.Errorf("scenario validation: vehicle %d (%s): %w", i+1, vc.ID, err)
		}
	}
	return sim, nil
}

// LoadScenario loads and validates a scenario from a JSON file
func LoadScenario(filename string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config ScenarioConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file '%s': %w", filename, err)
	}

	if err := ValidateScenario(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
