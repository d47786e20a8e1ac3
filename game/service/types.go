package service

import (
	"time"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
)

// SessionInfo provides information about a simulation session
type SessionInfo struct {
	ID             string                   `json:"id"`
	ScenarioName   string                   `json:"scenario_name"`
	Width          int                      `json:"width"`
	Height         int                      `json:"height"`
	Vehicles       []engine.VehicleSnapshot `json:"vehicles"`
	LastRun        *engine.RunReport        `json:"last_run,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	LastAccessedAt time.Time                `json:"last_accessed_at"`
}

// AddVehicleRequest carries raw, unvalidated registration input
type AddVehicleRequest struct {
	ID       string `json:"id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Heading  string `json:"heading"`
	Commands string `json:"commands"`
}

// VehicleListing is the roster of a session, one line per vehicle
type VehicleListing struct {
	SessionID string                   `json:"session_id"`
	Width     int                      `json:"width"`
	Height    int                      `json:"height"`
	Vehicles  []engine.VehicleSnapshot `json:"vehicles"`
	Lines     []string                 `json:"lines"`
}

// RunResult contains the result of a simulation run
type RunResult struct {
	SessionID       string            `json:"session_id"`
	Report          *engine.RunReport `json:"report"`
	CollisionEvents int               `json:"collision_events"`
	Collided        []string          `json:"collided,omitempty"`
	CollisionLog    []string          `json:"collision_log"`
	SurvivorLog     []string          `json:"survivor_log"`
	Events          []SimulationEvent `json:"events,omitempty"`
}

// SimulationEvent represents something that happened to a session
type SimulationEvent struct {
	Type      string          `json:"type"` // "vehicle_added", "collision", "run_complete", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Step      int             `json:"step,omitempty"`
	Position  engine.Position `json:"position,omitempty"`
}

// ScenarioInfo provides information about a scenario file
type ScenarioInfo struct {
	Filename     string `json:"filename"`
	ScenarioID   string `json:"scenario_id"` // The identifier to use for session creation
	Name         string `json:"name"`
	Description  string `json:"description"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	VehicleCount int    `json:"vehicle_count"`
}
