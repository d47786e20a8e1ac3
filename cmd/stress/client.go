package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wricardo/mcp-training/autodrive/game/service"
)

// Client drives one session of the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateSession starts an empty field and remembers its id
func (c *Client) CreateSession(width, height int) (*service.SessionInfo, error) {
	req := map[string]int{"width": width, "height": height}

	var session service.SessionInfo
	if err := c.do("POST", "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return &session, nil
}

func (c *Client) AddVehicle(req service.AddVehicleRequest) error {
	if err := c.do("POST", c.sessionPath("/vehicles"), req, nil); err != nil {
		return fmt.Errorf("add vehicle %s: %w", req.ID, err)
	}
	return nil
}

func (c *Client) Run() (*service.RunResult, error) {
	var result service.RunResult
	if err := c.do("POST", c.sessionPath("/run"), nil, &result); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	if result.Report == nil {
		return nil, fmt.Errorf("run: response has no report")
	}
	return &result, nil
}

func (c *Client) Reset() error {
	if err := c.do("POST", c.sessionPath("/reset"), nil, nil); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

func (c *Client) Delete() error {
	if err := c.do("DELETE", c.sessionPath(""), nil, nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return fmt.Sprintf("/api/sessions/%s%s", c.sessionID, suffix)
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s - %s", resp.Status, errResp.Error)
		}
		return fmt.Errorf("%s - %s", resp.Status, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
