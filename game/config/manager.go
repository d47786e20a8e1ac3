package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
	"github.com/wricardo/mcp-training/autodrive/game/service"
)

// Aliases of the service errors so callers of this package can match on them
var (
	ErrScenarioNotFound = service.ErrScenarioNotFound
	ErrInvalidScenario  = service.ErrInvalidScenario
)

// DefaultScenario is loaded as the default when present in the directory
const DefaultScenario = "two_car_collision"

// Manager handles scenario file loading and caching
type Manager struct {
	scenarioDir     string
	defaultName     string
	defaultScenario *engine.ScenarioConfig
	scenarios       map[string]*engine.ScenarioConfig
	mu              sync.RWMutex
}

// NewManager creates a new scenario manager over a directory of JSON files
func NewManager(scenarioDir string) (*Manager, error) {
	if _, err := os.Stat(scenarioDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario directory does not exist: %s", scenarioDir)
	}

	m := &Manager{
		scenarioDir: scenarioDir,
		defaultName: DefaultScenario,
		scenarios:   make(map[string]*engine.ScenarioConfig),
	}

	if err := m.loadDefaultScenario(); err != nil {
		return nil, fmt.Errorf("failed to load default scenario: %w", err)
	}

	return m, nil
}

// Dir returns the directory scenarios are read from
func (m *Manager) Dir() string {
	return m.scenarioDir
}

// LoadScenario loads a scenario by name, with or without the .json suffix
func (m *Manager) LoadScenario(name string) (*engine.ScenarioConfig, error) {
	name = strings.TrimSuffix(name, ".json")
	if err := checkName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if sc, exists := m.scenarios[name]; exists {
		m.mu.RUnlock()
		return sc, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if sc, exists := m.scenarios[name]; exists {
		return sc, nil
	}

	sc, err := engine.LoadScenario(m.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	m.scenarios[name] = sc
	return sc, nil
}

// ListScenarios returns information about every valid scenario in the
// directory, sorted by scenario id. Invalid files are skipped.
func (m *Manager) ListScenarios() ([]*service.ScenarioInfo, error) {
	entries, err := os.ReadDir(m.scenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var scenarios []*service.ScenarioInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		sc, err := m.LoadScenario(name)
		if err != nil {
			log.WithError(err).WithField("file", entry.Name()).Debug("skipping invalid scenario")
			continue
		}

		scenarios = append(scenarios, &service.ScenarioInfo{
			Filename:     entry.Name(),
			ScenarioID:   name,
			Name:         sc.Name,
			Description:  sc.Description,
			Width:        sc.Width,
			Height:       sc.Height,
			VehicleCount: len(sc.Vehicles),
		})
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].ScenarioID < scenarios[j].ScenarioID
	})
	return scenarios, nil
}

// GetDefault returns the default scenario
func (m *Manager) GetDefault() *engine.ScenarioConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultScenario
}

// SetDefault sets the default scenario by name. The choice survives RefreshCache.
func (m *Manager) SetDefault(name string) error {
	sc, err := m.LoadScenario(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = strings.TrimSuffix(name, ".json")
	m.defaultScenario = sc
	return nil
}

// RefreshCache drops every cached scenario and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.scenarios = make(map[string]*engine.ScenarioConfig)
	m.mu.Unlock()

	return m.loadDefaultScenario()
}

// SaveScenario validates a scenario and writes it to disk
func (m *Manager) SaveScenario(name string, sc *engine.ScenarioConfig) error {
	name = strings.TrimSuffix(name, ".json")
	if err := checkName(name); err != nil {
		return err
	}
	if err := engine.ValidateScenario(sc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	if err := os.WriteFile(m.path(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	m.mu.Lock()
	m.scenarios[name] = sc
	m.mu.Unlock()

	return nil
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.scenarioDir, name+".json")
}

// loadDefaultScenario prefers the chosen default (DefaultScenario unless
// SetDefault was called), then the first valid file, then an empty 10x10 field
func (m *Manager) loadDefaultScenario() error {
	m.mu.RLock()
	name := m.defaultName
	m.mu.RUnlock()

	sc, err := m.LoadScenario(name)
	if err != nil {
		list, listErr := m.ListScenarios()
		if listErr != nil || len(list) == 0 {
			m.setDefault(createMinimalScenario())
			return nil
		}

		sc, err = m.LoadScenario(list[0].ScenarioID)
		if err != nil {
			m.setDefault(createMinimalScenario())
			return nil
		}
	}

	m.setDefault(sc)
	return nil
}

func (m *Manager) setDefault(sc *engine.ScenarioConfig) {
	m.mu.Lock()
	m.defaultScenario = sc
	m.mu.Unlock()
}

// checkName keeps scenario names inside the scenario directory
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: bad scenario name %q", ErrInvalidScenario, name)
	}
	return nil
}

// createMinimalScenario creates an empty field used when no file is available
func createMinimalScenario() *engine.ScenarioConfig {
	return &engine.ScenarioConfig{
		Name:        "default",
		Description: "Empty 10x10 field",
		Width:       10,
		Height:      10,
		Vehicles:    []engine.VehicleConfig{},
	}
}
