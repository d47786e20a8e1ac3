package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
)

// simulationServiceImpl implements the SimulationService interface
type simulationServiceImpl struct {
	sessions  SessionManager
	scenarios ScenarioManager
	metrics   *simulationMetrics
	mu        sync.RWMutex
}

// NewSimulationService creates a new simulation service using the global meter provider
func NewSimulationService(sessions SessionManager, scenarios ScenarioManager) SimulationService {
	return NewSimulationServiceWithMeter(sessions, scenarios, nil)
}

// NewSimulationServiceWithMeter creates a simulation service recording to meter
func NewSimulationServiceWithMeter(sessions SessionManager, scenarios ScenarioManager, meter metric.Meter) SimulationService {
	return &simulationServiceImpl{
		sessions:  sessions,
		scenarios: scenarios,
		metrics:   newSimulationMetrics(meter),
	}
}

// getScenarioID returns the scenario_id for a given scenario name, used for consistent API responses
func (s *simulationServiceImpl) getScenarioID(scenarioName string) string {
	available, err := s.scenarios.ListScenarios()
	if err == nil {
		for _, sc := range available {
			if sc.Name == scenarioName {
				return sc.ScenarioID
			}
		}
	}
	if scenarioName == "" {
		return "custom"
	}
	return scenarioName
}

func (s *simulationServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	name := ""
	if sess.Scenario != nil {
		name = s.getScenarioID(sess.Scenario.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ScenarioName:   name,
		Width:          sess.Simulation.Width(),
		Height:         sess.Simulation.Height(),
		Vehicles:       sess.Simulation.Vehicles(),
		LastRun:        sess.LastRun,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
	}
}

func (s *simulationServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	_ = s.sessions.UpdateLastAccessed(sess.ID)
	return sess, nil
}

// CreateSession creates a session with an empty roster on a width x height grid
func (s *simulationServiceImpl) CreateSession(ctx context.Context, width, height int) (*SessionInfo, error) {
	if err := engine.ValidateGrid(width, height); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scenario := &engine.ScenarioConfig{
		Name:   "custom",
		Width:  width,
		Height: height,
	}
	sess, err := s.sessions.Create("", scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s.sessionInfo(sess), nil
}

// CreateSessionFromScenario creates a session preloaded with a scenario's roster.
// An empty name selects the default scenario.
func (s *simulationServiceImpl) CreateSessionFromScenario(ctx context.Context, scenarioName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scenario *engine.ScenarioConfig
	if scenarioName == "" {
		scenario = s.scenarios.GetDefault()
	} else {
		var err error
		scenario, err = s.scenarios.LoadScenario(scenarioName)
		if err != nil {
			if errors.Is(err, ErrScenarioNotFound) {
				available, listErr := s.scenarios.ListScenarios()
				if listErr == nil && len(available) > 0 {
					ids := make([]string, 0, len(available))
					for _, sc := range available {
						ids = append(ids, sc.ScenarioID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available scenarios: %v", ErrScenarioNotFound, scenarioName, ids)
				}
			}
			return nil, fmt.Errorf("failed to load scenario %s: %w", scenarioName, err)
		}
	}

	sess, err := s.sessions.Create("", scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	for range scenario.Vehicles {
		s.metrics.recordRegistration(ctx, nil)
	}

	info := s.sessionInfo(sess)
	if scenarioName != "" {
		info.ScenarioName = scenarioName
	}
	return info, nil
}

// GetSession retrieves session information
func (s *simulationServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *simulationServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *simulationServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// AddVehicle validates and registers a vehicle in a session
func (s *simulationServiceImpl) AddVehicle(ctx context.Context, sessionID string, req AddVehicleRequest) (*VehicleListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	err = engine.AddVehicle(sess.Simulation, engine.VehicleConfig{
		ID:       req.ID,
		X:        req.X,
		Y:        req.Y,
		Heading:  req.Heading,
		Commands: req.Commands,
	})
	s.metrics.recordRegistration(ctx, err)
	if err != nil {
		return nil, err
	}

	return listing(sess, true), nil
}

// ListVehicles returns the roster of a session in registration order
func (s *simulationServiceImpl) ListVehicles(ctx context.Context, sessionID string, includeCommands bool) (*VehicleListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return listing(sess, includeCommands), nil
}

// Run executes every queued command in the session
func (s *simulationServiceImpl) Run(ctx context.Context, sessionID string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	report, ok := sess.Simulation.Run()
	if !ok {
		return nil, ErrNoVehicles
	}
	sess.LastRun = report

	eventCount := engine.CollisionEvents(report)
	s.metrics.recordRun(ctx, report.Steps, eventCount, len(report.Survivors))

	result := &RunResult{
		SessionID:       sess.ID,
		Report:          report,
		CollisionEvents: eventCount,
		Collided:        engine.CollidedIDs(report),
		CollisionLog:    report.CollisionLines(),
		SurvivorLog:     report.SurvivorLines(),
		Events:          extractRunEvents(report),
	}
	return result, nil
}

// Reset clears the roster of a session, keeping its grid
func (s *simulationServiceImpl) Reset(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Simulation.Reset()
	sess.LastRun = nil
	return s.sessionInfo(sess), nil
}

// ListScenarios returns available scenarios
func (s *simulationServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	return s.scenarios.ListScenarios()
}

// LoadScenario loads a specific scenario
func (s *simulationServiceImpl) LoadScenario(ctx context.Context, name string) (*engine.ScenarioConfig, error) {
	return s.scenarios.LoadScenario(name)
}

// SaveScenario validates and stores a scenario
func (s *simulationServiceImpl) SaveScenario(ctx context.Context, name string, scenario *engine.ScenarioConfig) error {
	if err := engine.ValidateScenario(scenario); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return s.scenarios.SaveScenario(name, scenario)
}

// RefreshScenarios drops cached scenarios so edits on disk are picked up,
// then lists what is available now
func (s *simulationServiceImpl) RefreshScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.scenarios.RefreshCache(); err != nil {
		return nil, fmt.Errorf("failed to refresh scenarios: %w", err)
	}
	return s.scenarios.ListScenarios()
}

func listing(sess *Session, includeCommands bool) *VehicleListing {
	return &VehicleListing{
		SessionID: sess.ID,
		Width:     sess.Simulation.Width(),
		Height:    sess.Simulation.Height(),
		Vehicles:  sess.Simulation.Vehicles(),
		Lines:     sess.Simulation.Listing(includeCommands),
	}
}

// extractRunEvents turns a report into a timeline: one event per collision
// (not per record) and a final run_complete
func extractRunEvents(report *engine.RunReport) []SimulationEvent {
	now := time.Now()
	events := make([]SimulationEvent, 0, len(report.Collisions)/2+1)
	for i := 0; i+1 < len(report.Collisions); i += 2 {
		rec := report.Collisions[i]
		events = append(events, SimulationEvent{
			Type:      "collision",
			Message:   rec.String(),
			Timestamp: now,
			Step:      rec.Step,
			Position:  rec.Position,
		})
	}
	events = append(events, SimulationEvent{
		Type:      "run_complete",
		Message:   fmt.Sprintf("Run finished after %d steps with %d survivors", report.Steps, len(report.Survivors)),
		Timestamp: now,
		Step:      report.Steps,
	})
	return events
}
