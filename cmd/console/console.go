package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
)

// errQuit ends the session loop when the user exits or input runs out
var errQuit = errors.New("quit")

type outcome int

const (
	outcomeRestart outcome = iota
	outcomeExit
)

// Console drives the interactive menu over any reader and writer
type Console struct {
	in  *bufio.Scanner
	out io.Writer

	// preset seeds the first field instead of asking for a size
	preset *engine.ScenarioConfig
}

// NewConsole creates a console reading commands from in and writing to out
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// WithScenario seeds the first field from a scenario instead of prompting
func (c *Console) WithScenario(sc *engine.ScenarioConfig) *Console {
	c.preset = sc
	return c
}

// Run shows the welcome banner and then loops: every "start over" builds a
// brand new field. It returns when the user exits or input ends.
func (c *Console) Run() error {
	c.println("\nWelcome to Auto Driving Car Simulation!")

	for {
		sim, err := c.newField()
		if err != nil {
			return c.goodbye(err)
		}

		result, err := c.session(sim)
		if err != nil {
			return c.goodbye(err)
		}
		if result == outcomeExit {
			return c.goodbye(nil)
		}

		c.println("\nRestarting simulation...")
		log.Debug("console restarted")
	}
}

func (c *Console) goodbye(err error) error {
	if err != nil && !errors.Is(err, errQuit) {
		return err
	}
	c.println("\nThank you for running the simulation. Goodbye!")
	return nil
}

// newField builds the field for one round, from the preset the first time
// one is given
func (c *Console) newField() (*engine.Simulation, error) {
	if c.preset != nil {
		sc := c.preset
		c.preset = nil

		sim, err := engine.NewSimulationFromScenario(sc)
		if err != nil {
			return nil, err
		}
		c.printf("\nLoaded scenario %s: a field of %d x %d.\n", sc.Name, sc.Width, sc.Height)
		if sim.VehicleCount() > 0 {
			c.showCars(sim, true)
		}
		return sim, nil
	}

	for {
		fields, err := c.prompt("\nPlease enter the width and height of the simulation field in x y format: ")
		if err != nil {
			return nil, err
		}

		if len(fields) != 2 {
			c.println("Invalid input. Please enter exactly two Positive Integer values: x y.")
			continue
		}

		width, errW := strconv.Atoi(fields[0])
		height, errH := strconv.Atoi(fields[1])
		if errW != nil || errH != nil || engine.ValidateGrid(width, height) != nil {
			c.printf("Please enter valid (Positive Integers only, at most %d) values for width and height of the simulation.\n", engine.MaxGridSize)
			continue
		}

		c.printf("\nYou have created a field of %d x %d.\n", width, height)
		return engine.NewSimulation(width, height), nil
	}
}

// session runs the main menu on one field
func (c *Console) session(sim *engine.Simulation) (outcome, error) {
	for {
		warning := ""
		if sim.VehicleCount() == 0 {
			warning = " (Warning - No cars added yet)"
		}

		c.println("\nPlease choose from the following options:")
		c.println("\n[1] Add a car to field")
		c.printf("[2] Run simulation%s\n", warning)
		c.println("[3] Start over (Restart simulation)")
		c.println("[4] Exit simulation")

		choice, err := c.readLine()
		if err != nil {
			return outcomeExit, err
		}

		switch choice {
		case "1":
			if err := c.addCar(sim); err != nil {
				return outcomeExit, err
			}

		case "2":
			if sim.VehicleCount() == 0 {
				c.println("\nNo cars added to simulation. Please add at least one car before running.")
				continue
			}

			c.runSimulation(sim)

			next, done, err := c.afterRun(sim)
			if err != nil || done {
				return next, err
			}

		case "3":
			return outcomeRestart, nil

		case "4":
			return outcomeExit, nil

		default:
			c.println("\nInvalid input, select between options 1-4.")
		}
	}
}

// afterRun shows the post-run menu. done is false when the user chose to
// keep the field and add new cars.
func (c *Console) afterRun(sim *engine.Simulation) (outcome, bool, error) {
	for {
		c.println("\n[1] Start over (Restart simulation)")
		c.println("[2] Reset simulation with new cars")
		c.println("[3] Exit simulation")

		choice, err := c.readLine()
		if err != nil {
			return outcomeExit, true, err
		}

		switch choice {
		case "1":
			return outcomeRestart, true, nil
		case "2":
			sim.Reset()
			c.println("\nSimulation reset - Please add new cars!")
			return outcomeRestart, false, nil
		case "3":
			return outcomeExit, true, nil
		default:
			c.println("\nInvalid input, select between options 1-3.")
		}
	}
}

// addCar asks for a name, a start position and commands, re-asking each
// part until it is valid
func (c *Console) addCar(sim *engine.Simulation) error {
	var name string
	for {
		line, err := c.readPrompt("\nPlease enter the name of the car: ")
		if err != nil {
			return err
		}
		name = strings.TrimSpace(line)

		if name == "" {
			c.println("The car name cannot be empty.")
			continue
		}
		if sim.HasVehicle(name) {
			c.println("There is already a car created with this name. Please input a different car name.")
			continue
		}
		if sim.VehicleCount() >= engine.MaxVehicles {
			c.printf("The field already holds the maximum of %d cars.\n", engine.MaxVehicles)
			return nil
		}
		break
	}

	var (
		x, y    int
		heading engine.Heading
	)
	for {
		fields, err := c.prompt(fmt.Sprintf("\nPlease enter initial position of car %s in x y Direction format: ", name))
		if err != nil {
			return err
		}

		if len(fields) != 3 {
			c.println("Invalid input. Please enter exactly two Positive Integer values followed by a direction (N, S, E or W): x y direction.")
			continue
		}

		var errX, errY error
		x, errX = strconv.Atoi(fields[0])
		y, errY = strconv.Atoi(fields[1])
		if errX != nil || errY != nil || !engine.CanMoveTo(x, y, sim.Width(), sim.Height()) {
			c.printf("Invalid car coordinates. Please enter values with 0 <= x < %d and 0 <= y < %d.\n", sim.Width(), sim.Height())
			continue
		}

		heading, err = engine.ParseHeading(fields[2])
		if err != nil {
			c.println("Invalid car direction. Please enter N, S, W, or E.")
			continue
		}

		if sim.IsOccupied(engine.Position{X: x, Y: y}) {
			c.println("There is already a car at this position. Please input different car coordinates.")
			continue
		}
		break
	}

	var commands []engine.Command
	for {
		line, err := c.readPrompt(fmt.Sprintf("\nPlease enter the commands for car %s: ", name))
		if err != nil {
			return err
		}

		commands, err = engine.ParseCommands(strings.TrimSpace(line))
		if err != nil {
			c.println("Invalid car commands. Please enter a string containing only L, R or F.")
			continue
		}
		break
	}

	sim.RegisterVehicle(name, x, y, heading, commands)
	log.WithField("vehicle", name).Debug("console added car")

	c.showCars(sim, true)
	return nil
}

// runSimulation prints the roster, runs it and prints the outcome
func (c *Console) runSimulation(sim *engine.Simulation) {
	c.showCars(sim, false)

	report, ok := sim.Run()
	if !ok {
		return
	}

	c.println("\nAfter simulation, the result is:")
	for _, line := range report.CollisionLines() {
		c.println(line)
	}
	for _, line := range report.SurvivorLines() {
		c.println(line)
	}
}

func (c *Console) showCars(sim *engine.Simulation, includeCommands bool) {
	c.println("\nYour current list of cars are:")
	for _, line := range sim.Listing(includeCommands) {
		c.println("- " + line)
	}
}

// prompt writes msg and returns the whitespace separated fields of the answer
func (c *Console) prompt(msg string) ([]string, error) {
	line, err := c.readPrompt(msg)
	if err != nil {
		return nil, err
	}
	return strings.Fields(line), nil
}

func (c *Console) readPrompt(msg string) (string, error) {
	fmt.Fprint(c.out, msg)
	return c.readLine()
}

// readLine returns the next trimmed line, or errQuit once input is exhausted
func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}
