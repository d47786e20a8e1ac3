package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
)

// SimulationService defines all simulation-related operations
type SimulationService interface {
	// Session Management
	CreateSession(ctx context.Context, width, height int) (*SessionInfo, error)
	CreateSessionFromScenario(ctx context.Context, scenarioName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Roster
	AddVehicle(ctx context.Context, sessionID string, req AddVehicleRequest) (*VehicleListing, error)
	ListVehicles(ctx context.Context, sessionID string, includeCommands bool) (*VehicleListing, error)

	// Simulation
	Run(ctx context.Context, sessionID string) (*RunResult, error)
	Reset(ctx context.Context, sessionID string) (*SessionInfo, error)

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	LoadScenario(ctx context.Context, name string) (*engine.ScenarioConfig, error)
	SaveScenario(ctx context.Context, name string, scenario *engine.ScenarioConfig) error
	RefreshScenarios(ctx context.Context) ([]*ScenarioInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, scenario *engine.ScenarioConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ScenarioManager handles scenario file loading
type ScenarioManager interface {
	LoadScenario(name string) (*engine.ScenarioConfig, error)
	ListScenarios() ([]*ScenarioInfo, error)
	GetDefault() *engine.ScenarioConfig
	SaveScenario(name string, scenario *engine.ScenarioConfig) error
	RefreshCache() error
}

// Session represents one simulation field and its roster
type Session struct {
	ID             string
	Simulation     *engine.Simulation
	Scenario       *engine.ScenarioConfig
	LastRun        *engine.RunReport
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
