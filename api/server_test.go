package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/autodrive/game/engine"
	"github.com/wricardo/mcp-training/autodrive/game/service"
	"github.com/wricardo/mcp-training/autodrive/transport/websocket"
)

// MockSimulationService implements service.SimulationService for testing
type MockSimulationService struct {
	// Session Management
	CreateSessionFunc             func(ctx context.Context, width, height int) (*service.SessionInfo, error)
	CreateSessionFromScenarioFunc func(ctx context.Context, scenarioName string) (*service.SessionInfo, error)
	GetSessionFunc                func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc              func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc             func(ctx context.Context, sessionID string) error

	// Roster and simulation
	AddVehicleFunc   func(ctx context.Context, sessionID string, req service.AddVehicleRequest) (*service.VehicleListing, error)
	ListVehiclesFunc func(ctx context.Context, sessionID string, includeCommands bool) (*service.VehicleListing, error)
	RunFunc          func(ctx context.Context, sessionID string) (*service.RunResult, error)
	ResetFunc        func(ctx context.Context, sessionID string) (*service.SessionInfo, error)

	// Scenarios
	ListScenariosFunc func(ctx context.Context) ([]*service.ScenarioInfo, error)
	LoadScenarioFunc  func(ctx context.Context, name string) (*engine.ScenarioConfig, error)
	SaveScenarioFunc  func(ctx context.Context, name string, scenario *engine.ScenarioConfig) error
	RefreshFunc       func(ctx context.Context) ([]*service.ScenarioInfo, error)
}

func (m *MockSimulationService) CreateSession(ctx context.Context, width, height int) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, width, height)
	}
	return &service.SessionInfo{ID: "test-session", Width: width, Height: height, CreatedAt: time.Now()}, nil
}

func (m *MockSimulationService) CreateSessionFromScenario(ctx context.Context, scenarioName string) (*service.SessionInfo, error) {
	if m.CreateSessionFromScenarioFunc != nil {
		return m.CreateSessionFromScenarioFunc(ctx, scenarioName)
	}
	return &service.SessionInfo{ID: "test-session", ScenarioName: scenarioName, Width: 10, Height: 10, CreatedAt: time.Now()}, nil
}

func (m *MockSimulationService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, Width: 10, Height: 10, CreatedAt: time.Now()}, nil
}

func (m *MockSimulationService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockSimulationService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockSimulationService) AddVehicle(ctx context.Context, sessionID string, req service.AddVehicleRequest) (*service.VehicleListing, error) {
	if m.AddVehicleFunc != nil {
		return m.AddVehicleFunc(ctx, sessionID, req)
	}
	return &service.VehicleListing{SessionID: sessionID}, nil
}

func (m *MockSimulationService) ListVehicles(ctx context.Context, sessionID string, includeCommands bool) (*service.VehicleListing, error) {
	if m.ListVehiclesFunc != nil {
		return m.ListVehiclesFunc(ctx, sessionID, includeCommands)
	}
	return &service.VehicleListing{SessionID: sessionID}, nil
}

func (m *MockSimulationService) Run(ctx context.Context, sessionID string) (*service.RunResult, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, sessionID)
	}
	return &service.RunResult{SessionID: sessionID, Report: &engine.RunReport{}}, nil
}

func (m *MockSimulationService) Reset(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID}, nil
}

func (m *MockSimulationService) ListScenarios(ctx context.Context) ([]*service.ScenarioInfo, error) {
	if m.ListScenariosFunc != nil {
		return m.ListScenariosFunc(ctx)
	}
	return []*service.ScenarioInfo{}, nil
}

func (m *MockSimulationService) LoadScenario(ctx context.Context, name string) (*engine.ScenarioConfig, error) {
	if m.LoadScenarioFunc != nil {
		return m.LoadScenarioFunc(ctx, name)
	}
	return &engine.ScenarioConfig{Name: name, Width: 10, Height: 10}, nil
}

func (m *MockSimulationService) SaveScenario(ctx context.Context, name string, scenario *engine.ScenarioConfig) error {
	if m.SaveScenarioFunc != nil {
		return m.SaveScenarioFunc(ctx, name, scenario)
	}
	return nil
}

func (m *MockSimulationService) RefreshScenarios(ctx context.Context) ([]*service.ScenarioInfo, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return []*service.ScenarioInfo{}, nil
}

// Test helpers
func setupTestServer(mockService *MockSimulationService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v (body: %s)", err, w.Body.String())
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	parseResponse(t, w, &resp)
	return resp["error"]
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockSimulationService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default scenario",
			requestBody: nil,
			setupMock: func(m *MockSimulationService) {
				m.CreateSessionFromScenarioFunc = func(ctx context.Context, scenarioName string) (*service.SessionInfo, error) {
					if scenarioName != "" {
						t.Errorf("Expected empty scenario name, got %q", scenarioName)
					}
					return &service.SessionInfo{ID: "ab12", ScenarioName: "default", Width: 10, Height: 10}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with grid size",
			requestBody: map[string]int{"width": 8, "height": 6},
			setupMock: func(m *MockSimulationService) {
				m.CreateSessionFunc = func(ctx context.Context, width, height int) (*service.SessionInfo, error) {
					if width != 8 || height != 6 {
						t.Errorf("Expected 8x6, got %dx%d", width, height)
					}
					return &service.SessionInfo{ID: "cd34", Width: width, Height: height}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.Width != 8 || resp.Height != 6 {
					t.Errorf("Expected 8x6, got %dx%d", resp.Width, resp.Height)
				}
			},
		},
		{
			name:        "Create session from scenario",
			requestBody: map[string]string{"scenario_id": "two_car_collision"},
			setupMock: func(m *MockSimulationService) {
				m.CreateSessionFromScenarioFunc = func(ctx context.Context, scenarioName string) (*service.SessionInfo, error) {
					if scenarioName != "two_car_collision" {
						t.Errorf("Expected two_car_collision, got %s", scenarioName)
					}
					return &service.SessionInfo{ID: "ef56", ScenarioName: scenarioName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Invalid grid",
			requestBody: map[string]int{"width": -1, "height": 5},
			setupMock: func(m *MockSimulationService) {
				m.CreateSessionFunc = func(ctx context.Context, width, height int) (*service.SessionInfo, error) {
					return nil, engine.ValidateGrid(width, height)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Unknown scenario",
			requestBody: map[string]string{"scenario_id": "nope"},
			setupMock: func(m *MockSimulationService) {
				m.CreateSessionFromScenarioFunc = func(ctx context.Context, scenarioName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: nope", service.ErrScenarioNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Handle service error",
			requestBody: nil,
			setupMock: func(m *MockSimulationService) {
				m.CreateSessionFromScenarioFunc = func(ctx context.Context, scenarioName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				if msg := errorMessage(t, w); msg != "service error" {
					t.Errorf("Expected error message 'service error', got %s", msg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockSimulationService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestCreateSession_InvalidBody(t *testing.T) {
	server := setupTestServer(&MockSimulationService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sessions", bytes.NewBufferString("{bad"))
	server.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockSimulationService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-time.Hour)},
				{ID: "new", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now},
				{ID: "mid", CreatedAt: now.Add(-90 * time.Minute), LastAccessedAt: now.Add(-30 * time.Minute)},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		name      string
		query     string
		wantIDs   []string
		wantTotal int
	}{
		{"default sorts by access desc", "", []string{"new", "mid", "old"}, 3},
		{"created ascending", "?sort=created&order=asc", []string{"old", "mid", "new"}, 3},
		{"limit", "?limit=1", []string{"new"}, 3},
		{"bad limit ignored", "?limit=abc", []string{"new", "mid", "old"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", resp.Total, tt.wantTotal)
			}
			if resp.Count != len(tt.wantIDs) {
				t.Errorf("count = %d, want %d", resp.Count, len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if i >= len(resp.Sessions) || resp.Sessions[i].ID != id {
					t.Errorf("sessions[%d] mismatch, want %s", i, id)
				}
			}
		})
	}

	t.Run("service error", func(t *testing.T) {
		server := setupTestServer(&MockSimulationService{
			ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
				return nil, fmt.Errorf("boom")
			},
		})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", w.Code)
		}
	})
}

func TestGetSession(t *testing.T) {
	mockService := &MockSimulationService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "ab12" {
				return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
			}
			return &service.SessionInfo{ID: sessionID, Width: 10, Height: 10}, nil
		},
	}
	server := setupTestServer(mockService)

	t.Run("existing", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var resp service.SessionInfo
		parseResponse(t, w, &resp)
		if resp.ID != "ab12" {
			t.Errorf("Expected ID ab12, got %s", resp.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/zzzz", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
		if msg := errorMessage(t, w); msg != "session not found: zzzz" {
			t.Errorf("error = %q", msg)
		}
	})
}

func TestDeleteSession(t *testing.T) {
	var deleted string
	server := setupTestServer(&MockSimulationService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID == "gone" {
				return service.ErrSessionNotFound
			}
			deleted = sessionID
			return nil
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/ab12", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if deleted != "ab12" {
		t.Errorf("deleted = %q, want ab12", deleted)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/gone", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Simulation Tests

func TestAddVehicle(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		err            error
		expectedStatus int
	}{
		{"valid vehicle", map[string]interface{}{"id": "A", "x": 1, "y": 2, "heading": "N", "commands": "FFRFFFFRRL"}, nil, http.StatusCreated},
		{"duplicate id", map[string]interface{}{"id": "A", "x": 1, "y": 2, "heading": "N", "commands": "F"}, engine.ErrDuplicateVehicle, http.StatusConflict},
		{"occupied cell", map[string]interface{}{"id": "B", "x": 1, "y": 2, "heading": "N", "commands": "F"}, engine.ErrCellOccupied, http.StatusConflict},
		{"out of bounds", map[string]interface{}{"id": "B", "x": 10, "y": 2, "heading": "N", "commands": "F"}, engine.ErrOutOfBounds, http.StatusBadRequest},
		{"bad heading", map[string]interface{}{"id": "B", "x": 1, "y": 2, "heading": "Q", "commands": "F"}, engine.ErrInvalidHeading, http.StatusBadRequest},
		{"bad commands", map[string]interface{}{"id": "B", "x": 1, "y": 2, "heading": "N", "commands": "FXF"}, engine.ErrInvalidCommands, http.StatusBadRequest},
		{"unknown session", map[string]interface{}{"id": "B", "x": 1, "y": 2, "heading": "N", "commands": "F"}, service.ErrSessionNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.AddVehicleRequest
			server := setupTestServer(&MockSimulationService{
				AddVehicleFunc: func(ctx context.Context, sessionID string, req service.AddVehicleRequest) (*service.VehicleListing, error) {
					got = req
					if tt.err != nil {
						return nil, fmt.Errorf("wrapped: %w", tt.err)
					}
					return &service.VehicleListing{
						SessionID: sessionID,
						Lines:     []string{"A, (1, 2) N, FFRFFFFRRL"},
						Vehicles: []engine.VehicleSnapshot{
							{ID: "A", Position: engine.Position{X: 1, Y: 2}, Heading: engine.North, Commands: "FFRFFFFRRL"},
						},
					}, nil
				},
			})

			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/vehicles", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if got.ID == "" {
				t.Error("request was not decoded")
			}
			if tt.err == nil {
				var resp service.VehicleListing
				parseResponse(t, w, &resp)
				if len(resp.Lines) != 1 || resp.Lines[0] != "A, (1, 2) N, FFRFFFFRRL" {
					t.Errorf("Lines = %v", resp.Lines)
				}
			}
		})
	}

	t.Run("invalid body", func(t *testing.T) {
		server := setupTestServer(&MockSimulationService{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/sessions/ab12/vehicles", bytes.NewBufferString("nope"))
		server.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestListVehicles(t *testing.T) {
	var gotInclude bool
	server := setupTestServer(&MockSimulationService{
		ListVehiclesFunc: func(ctx context.Context, sessionID string, includeCommands bool) (*service.VehicleListing, error) {
			gotInclude = includeCommands
			return &service.VehicleListing{SessionID: sessionID, Lines: []string{"A, (1, 2) N"}}, nil
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/vehicles", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !gotInclude {
		t.Error("commands should be included by default")
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/vehicles?commands=false", nil))
	if gotInclude {
		t.Error("commands=false should omit commands")
	}
}

func TestRun(t *testing.T) {
	t.Run("collision report", func(t *testing.T) {
		server := setupTestServer(&MockSimulationService{
			RunFunc: func(ctx context.Context, sessionID string) (*service.RunResult, error) {
				report := &engine.RunReport{
					Width: 10, Height: 10, Steps: 10,
					Collisions: []engine.CollisionRecord{
						{Step: 7, Position: engine.Position{X: 5, Y: 4}, Subjects: []string{"A"}, Objects: []string{"B"}},
						{Step: 7, Position: engine.Position{X: 5, Y: 4}, Subjects: []string{"B"}, Objects: []string{"A"}},
					},
					Survivors: []engine.VehicleSnapshot{},
				}
				return &service.RunResult{
					SessionID:       sessionID,
					Report:          report,
					CollisionEvents: 1,
					CollisionLog:    report.CollisionLines(),
					SurvivorLog:     report.SurvivorLines(),
				}, nil
			},
		})

		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/run", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp service.RunResult
		parseResponse(t, w, &resp)
		if len(resp.CollisionLog) != 2 || resp.CollisionLog[1] != "- B, collides with A at (5, 4) at step 7." {
			t.Errorf("CollisionLog = %v", resp.CollisionLog)
		}
		if resp.Report == nil || resp.Report.Steps != 10 {
			t.Errorf("Report = %+v", resp.Report)
		}
	})

	t.Run("no vehicles", func(t *testing.T) {
		server := setupTestServer(&MockSimulationService{
			RunFunc: func(ctx context.Context, sessionID string) (*service.RunResult, error) {
				return nil, service.ErrNoVehicles
			},
		})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/run", nil))
		if w.Code != http.StatusConflict {
			t.Errorf("Expected status 409, got %d", w.Code)
		}
		if msg := errorMessage(t, w); msg != service.ErrNoVehicles.Error() {
			t.Errorf("error = %q", msg)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		server := setupTestServer(&MockSimulationService{})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/run", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", w.Code)
		}
	})
}

func TestReset(t *testing.T) {
	server := setupTestServer(&MockSimulationService{
		ResetFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return &service.SessionInfo{ID: sessionID, Width: 10, Height: 10, Vehicles: []engine.VehicleSnapshot{}}, nil
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/reset", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Message string               `json:"message"`
		Session *service.SessionInfo `json:"session"`
	}
	parseResponse(t, w, &resp)
	if resp.Session == nil || resp.Session.ID != "ab12" || len(resp.Session.Vehicles) != 0 {
		t.Errorf("unexpected reset response: %+v", resp)
	}
}

// Scenario Tests

func TestScenarios(t *testing.T) {
	var savedID string
	var saved *engine.ScenarioConfig
	server := setupTestServer(&MockSimulationService{
		ListScenariosFunc: func(ctx context.Context) ([]*service.ScenarioInfo, error) {
			return []*service.ScenarioInfo{{ScenarioID: "single_car", Name: "Single car", Width: 10, Height: 10, VehicleCount: 1}}, nil
		},
		LoadScenarioFunc: func(ctx context.Context, name string) (*engine.ScenarioConfig, error) {
			if name != "single_car" {
				return nil, fmt.Errorf("%w: %s", service.ErrScenarioNotFound, name)
			}
			return &engine.ScenarioConfig{Name: "Single car", Width: 10, Height: 10}, nil
		},
		SaveScenarioFunc: func(ctx context.Context, name string, scenario *engine.ScenarioConfig) error {
			if scenario.Width == 0 {
				return fmt.Errorf("%w: bad grid", service.ErrInvalidScenario)
			}
			savedID, saved = name, scenario
			return nil
		},
	})

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/scenarios", nil))
		var resp []service.ScenarioInfo
		parseResponse(t, w, &resp)
		if len(resp) != 1 || resp[0].ScenarioID != "single_car" {
			t.Errorf("unexpected list: %+v", resp)
		}
	})

	t.Run("get with extension", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/scenarios/single_car.json", nil))
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/scenarios/missing", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("save derives id from name", func(t *testing.T) {
		body := map[string]interface{}{
			"name": "My Test Field", "width": 5, "height": 5,
			"vehicles": []map[string]interface{}{{"id": "A", "x": 0, "y": 0, "heading": "E", "commands": "FF"}},
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/scenarios", body))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d (%s)", w.Code, w.Body.String())
		}
		if savedID != "my_test_field" {
			t.Errorf("saved id = %q, want my_test_field", savedID)
		}
		if saved == nil || len(saved.Vehicles) != 1 || saved.Vehicles[0].Commands != "FF" {
			t.Errorf("saved scenario = %+v", saved)
		}
	})

	t.Run("save requires name", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/scenarios", map[string]int{"width": 5}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("save invalid", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/scenarios", map[string]interface{}{"name": "bad", "width": 0}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestRefreshScenarios(t *testing.T) {
	calls := 0
	server := setupTestServer(&MockSimulationService{
		RefreshFunc: func(ctx context.Context) ([]*service.ScenarioInfo, error) {
			calls++
			return []*service.ScenarioInfo{{ScenarioID: "three_way", Width: 10, Height: 10, VehicleCount: 4}}, nil
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/scenarios/refresh", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	var resp struct {
		Count     int                    `json:"count"`
		Scenarios []service.ScenarioInfo `json:"scenarios"`
	}
	parseResponse(t, w, &resp)
	if calls != 1 || resp.Count != 1 || len(resp.Scenarios) != 1 || resp.Scenarios[0].ScenarioID != "three_way" {
		t.Errorf("unexpected refresh response: calls=%d %+v", calls, resp)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/scenarios/refresh", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET should still load a scenario named refresh, got %d", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrSessionNotFound, http.StatusNotFound},
		{service.ErrScenarioNotFound, http.StatusNotFound},
		{service.ErrNoVehicles, http.StatusConflict},
		{engine.ErrDuplicateVehicle, http.StatusConflict},
		{engine.ErrCellOccupied, http.StatusConflict},
		{engine.ErrTooManyVehicles, http.StatusConflict},
		{engine.ErrInvalidGrid, http.StatusBadRequest},
		{engine.ErrInvalidVehicleID, http.StatusBadRequest},
		{fmt.Errorf("ctx: %w", engine.ErrOutOfBounds), http.StatusBadRequest},
		{fmt.Errorf("anything else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(&MockSimulationService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestWebSocketEndpoint(t *testing.T) {
	server := setupTestServer(&MockSimulationService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, service.ErrSessionNotFound
		},
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing session: expected 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws?session=zzzz", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown session: expected 404, got %d", w.Code)
	}
}
