// Command console is the interactive front-end of the auto driving car
// simulation. It asks for a field size, lets the user add cars one by one,
// runs them and prints the collision log and the surviving cars.
//
//	console                                  # ask for a field size
//	console --scenario two_car_collision     # start from a prepared scenario
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/autodrive/game/config"
)

func main() {
	if err := newCommand(os.Stdin, os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "console",
		Usage:     "Interactive auto driving car simulation",
		Reader:    in,
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "scenario",
				Aliases: []string{"s"},
				Usage:   "start from a scenario in the scenario directory",
			},
			&cli.StringFlag{
				Name:    "scenario-dir",
				Value:   "scenarios",
				Usage:   "directory containing scenario files",
				Sources: cli.EnvVars("AUTODRIVE_SCENARIO_DIR", "SCENARIO_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging on stderr",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.SetOutput(os.Stderr)
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}

			console := NewConsole(cmd.Reader, cmd.Writer)

			if name := cmd.String("scenario"); name != "" {
				manager, err := config.NewManager(cmd.String("scenario-dir"))
				if err != nil {
					return err
				}
				sc, err := manager.LoadScenario(name)
				if err != nil {
					return err
				}
				console.WithScenario(sc)
			}

			return console.Run()
		},
	}
}
