package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
)

func runConsole(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	input := strings.Join(lines, "\n") + "\n"
	if err := NewConsole(strings.NewReader(input), &out).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

func TestConsole_Run(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []string
		notWant []string
	}{
		{
			name:  "single car",
			input: []string{"10 10", "1", "A", "1 2 N", "FFRFFFFRRL", "2", "3"},
			want: []string{
				"Welcome to Auto Driving Car Simulation!",
				"You have created a field of 10 x 10.",
				"- A, (1, 2) N, FFRFFFFRRL",
				"After simulation, the result is:",
				"- A, (5, 4) S",
				"Thank you for running the simulation. Goodbye!",
			},
		},
		{
			name: "two car collision",
			input: []string{
				"10 10",
				"1", "A", "1 2 N", "FFRFFFFRRL",
				"1", "B", "7 8 W", "FFLFFFFFFF",
				"2", "3",
			},
			want: []string{
				"- A, (1, 2) N\n- B, (7, 8) W\n",
				"- A, collides with B at (5, 4) at step 7.\n- B, collides with A at (5, 4) at step 7.\n",
			},
			notWant: []string{"- A, (5, 4) S"},
		},
		{
			name: "invalid input is asked again",
			input: []string{
				"abc", "0 5", "10 10",
				"9",
				"1", "A", "1 2", "10 2 N", "1 2 X", "1 2 N", "FFX", "F",
				"1", "A", "", "B", "1 2 E", "3 3 E", "R",
				"4",
			},
			want: []string{
				"Invalid input. Please enter exactly two Positive Integer values: x y.",
				"Please enter valid (Positive Integers only",
				"Invalid input, select between options 1-4.",
				"Please enter exactly two Positive Integer values followed by a direction",
				"Invalid car coordinates.",
				"Invalid car direction. Please enter N, S, W, or E.",
				"Invalid car commands. Please enter a string containing only L, R or F.",
				"There is already a car created with this name.",
				"The car name cannot be empty.",
				"There is already a car at this position.",
				"- A, (1, 2) N, F\n- B, (3, 3) E, R\n",
			},
		},
		{
			name:  "run without cars and start over",
			input: []string{"10 10", "2", "3", "5 5", "4"},
			want: []string{
				"[2] Run simulation (Warning - No cars added yet)",
				"No cars added to simulation. Please add at least one car before running.",
				"Restarting simulation...",
				"You have created a field of 5 x 5.",
				"Goodbye!",
			},
		},
		{
			name: "reset keeps the field",
			input: []string{
				"10 10", "1", "A", "1 2 N", "F", "2",
				"7", "2",
				"2",
				"1", "A", "1 2 N", "F",
				"2", "1", "4 4", "4",
			},
			want: []string{
				"Invalid input, select between options 1-3.",
				"Simulation reset - Please add new cars!",
				"No cars added to simulation.",
				"Restarting simulation...",
				"You have created a field of 4 x 4.",
			},
		},
		{
			name:  "input ends early",
			input: []string{"10 10", "1", "A"},
			want:  []string{"Goodbye!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := runConsole(t, tt.input...)

			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in output, got:\n%s", want, output)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(output, notWant) {
					t.Errorf("Did not expect %q in output, got:\n%s", notWant, output)
				}
			}
		})
	}
}

func TestConsole_WithScenario(t *testing.T) {
	sc := &engine.ScenarioConfig{
		Name:   "three_way",
		Width:  10,
		Height: 10,
		Vehicles: []engine.VehicleConfig{
			{ID: "A", X: 1, Y: 2, Heading: "N", Commands: "FFRFFFFRRL"},
			{ID: "B", X: 7, Y: 8, Heading: "W", Commands: "FFLFFFFFFF"},
			{ID: "C", X: 5, Y: 4, Heading: "N", Commands: "LRLR"},
			{ID: "D", X: 0, Y: 0, Heading: "N", Commands: "FFF"},
		},
	}

	var out bytes.Buffer
	input := strings.NewReader("2\n3\n")
	if err := NewConsole(input, &out).WithScenario(sc).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	output := out.String()
	expected := "After simulation, the result is:\n" +
		"- A, collides with C at (5, 4) at step 7.\n" +
		"- C, collides with A at (5, 4) at step 7.\n" +
		"- B, collides with C, A at (5, 4) at step 7.\n" +
		"- C, A, collides with B at (5, 4) at step 7.\n" +
		"- D, (0, 3) N\n"
	if !strings.Contains(output, expected) {
		t.Errorf("Expected run output:\n%s\ngot:\n%s", expected, output)
	}
	if !strings.Contains(output, "Loaded scenario three_way: a field of 10 x 10.") {
		t.Errorf("Expected scenario banner, got:\n%s", output)
	}
}

func TestNewCommand(t *testing.T) {
	dir := t.TempDir()
	scenario := `{
		"name": "Single Car", "width": 10, "height": 10,
		"vehicles": [{"id": "A", "x": 1, "y": 2, "heading": "N", "commands": "FFRFFFFRRL"}]
	}`
	if err := os.WriteFile(filepath.Join(dir, "single_car.json"), []byte(scenario), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := newCommand(strings.NewReader("2\n3\n"), &out)
	err := cmd.Run(context.Background(), []string{"console", "--scenario-dir", dir, "--scenario", "single_car"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(out.String(), "- A, (5, 4) S") {
		t.Errorf("Expected survivor line, got:\n%s", out.String())
	}

	cmd = newCommand(strings.NewReader(""), &out)
	err = cmd.Run(context.Background(), []string{"console", "--scenario-dir", dir, "--scenario", "missing"})
	if err == nil {
		t.Error("Expected error for unknown scenario")
	}
}
